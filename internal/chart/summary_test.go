package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSummary(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "short after stripping code",
			text: "Done.\n```python\nimport pandas as pd\ndf = pd.DataFrame(data)\n```",
			want: "",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
		{
			name: "only code lines",
			text: "import matplotlib.pyplot as plt\nplt.plot(x, y)\nplt.show()",
			want: "",
		},
		{
			name: "first two paragraphs",
			text: "Sales grew steadily through January.\n\n```python\nplt.plot(x)\n```\n\n" +
				"The biggest jump came on the tenth.\n\nA third paragraph that is dropped.",
			want: "Sales grew steadily through January.\n\nThe biggest jump came on the tenth.",
		},
		{
			name: "trivial paragraphs are skipped",
			text: "Ok.\n\nRevenue doubled over the quarter.\n\nNice.\n\nMargins held up as well.",
			want: "Revenue doubled over the quarter.\n\nMargins held up as well.",
		},
		{
			name: "inline code and assignments removed",
			text: "Use `plt.show()` to open the window.\ntotal = sum(values)\nfrom collections import Counter",
			want: "Use  to open the window.",
		},
		{
			name: "comparison is not an assignment",
			text: "The check total == expected passed for every row.",
			want: "The check total == expected passed for every row.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSummary(tt.text))
		})
	}
}

func TestLooksLikeCode(t *testing.T) {
	assert.True(t, looksLikeCode("import numpy as np"))
	assert.True(t, looksLikeCode("from pandas import DataFrame"))
	assert.True(t, looksLikeCode("  sns.barplot(data=df)"))
	assert.True(t, looksLikeCode("df['total'] = df.amount * 2"))
	assert.True(t, looksLikeCode("print(result)"))
	assert.False(t, looksLikeCode("Imports rose 4% this year."))
	assert.False(t, looksLikeCode(""))
}
