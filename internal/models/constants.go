// Package models contains data types and constants for the Cortex backend API.
package models

import (
	"strings"
	"time"
)

// Endpoint paths, relative to the configured API base URL
const (
	EndpointChat          = "/api/chat"
	EndpointUpload        = "/api/upload"
	EndpointUploadJobs    = "/api/upload/jobs"
	EndpointDownload      = "/api/download"
	EndpointSummarize     = "/api/summarize/quick"
	EndpointCompare       = "/api/compare/quick"
	EndpointQualityCheck  = "/api/quality/quick-check"
	EndpointHealth        = "/api/health"
	EndpointReportList    = "/api/reports/templates"
	EndpointReportCreate  = "/api/reports/generate"
	EndpointReportFetch   = "/api/reports/download"
	EndpointDocuments     = "/api/documents"
	DefaultAPIURL         = "http://localhost:8000"
	HistoryLimit          = 10
	DefaultChatTimeout    = 120 * time.Second
	HeavyChatTimeout      = 300 * time.Second
	DefaultUploadTimeout  = 300 * time.Second
	DefaultRequestTimeout = 60 * time.Second
)

// Persona is a response-style selector passed to the backend as "expert"
type Persona struct {
	ID          string
	DisplayName string
	// Heavy personas get the extended chat timeout
	Heavy bool
}

// Model is an LLM the backend can answer with
type Model struct {
	ID          string
	DisplayName string
}

var personas = []Persona{
	{ID: "general", DisplayName: "General Assistant"},
	{ID: "hr", DisplayName: "HR Expert"},
	{ID: "legal", DisplayName: "Legal Expert"},
	{ID: "political", DisplayName: "Political Analyst"},
	{ID: "intelligence", DisplayName: "Intelligence Analyst"},
	{ID: "data_analytics", DisplayName: "Data Analytics Expert", Heavy: true},
	{ID: "media", DisplayName: "Media Analyst"},
}

var chatModels = []Model{
	{ID: "qwen2.5:14b", DisplayName: "Qwen 2.5 14B"},
	{ID: "qwen3:8b", DisplayName: "Qwen 3 8B"},
}

// personaAliases maps the spellings the backend accepts to canonical ids
var personaAliases = map[string]string{
	"assistant":              "general",
	"default":                "general",
	"helper":                 "general",
	"general_expert":         "general",
	"generalexpert":          "general",
	"human_resources":        "hr",
	"hr_expert":              "hr",
	"humanresources":         "hr",
	"human_resources_expert": "hr",
	"law":                    "legal",
	"legal_expert":           "legal",
	"legalexpert":            "legal",
	"politics":               "political",
	"political_expert":       "political",
	"politicalexpert":        "political",
	"intel":                  "intelligence",
	"intelligence_expert":    "intelligence",
	"intelligenceexpert":     "intelligence",
	"dataanalytics":          "data_analytics",
	"data-analytics":         "data_analytics",
	"analytics":              "data_analytics",
	"analyst":                "data_analytics",
	"data_analyst":           "data_analytics",
	"data_analytics_expert":  "data_analytics",
	"dataanalyticsexpert":    "data_analytics",
	"media_expert":           "media",
	"mediaexpert":            "media",
}

// AllPersonas returns the fixed persona list; the first entry is the default
func AllPersonas() []Persona {
	out := make([]Persona, len(personas))
	copy(out, personas)
	return out
}

// AllModels returns the fixed model list; the first entry is the default
func AllModels() []Model {
	out := make([]Model, len(chatModels))
	copy(out, chatModels)
	return out
}

// DefaultPersona returns the first persona
func DefaultPersona() Persona { return personas[0] }

// DefaultModel returns the first model
func DefaultModel() Model { return chatModels[0] }

// NormalizePersonaID resolves aliases ("hr_expert", "analyst", ...) to a canonical id.
// Unknown names are returned lowercased and trimmed.
func NormalizePersonaID(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := personaAliases[key]; ok {
		return alias
	}
	return key
}

// PersonaAliases returns a copy of the alias table (alias -> canonical id)
func PersonaAliases() map[string]string {
	out := make(map[string]string, len(personaAliases))
	for k, v := range personaAliases {
		out[k] = v
	}
	return out
}

// PersonaByID looks up a persona by id or alias
func PersonaByID(id string) (Persona, bool) {
	id = NormalizePersonaID(id)
	for _, p := range personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

// ModelByID looks up a model by id (case-insensitive)
func ModelByID(id string) (Model, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, m := range chatModels {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// IndexOfPersona returns the position of id in AllPersonas, or -1
func IndexOfPersona(id string) int {
	for i, p := range personas {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// IndexOfModel returns the position of id in AllModels, or -1
func IndexOfModel(id string) int {
	for i, m := range chatModels {
		if m.ID == id {
			return i
		}
	}
	return -1
}
