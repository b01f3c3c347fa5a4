package speech

import (
	"log"
	"strings"
	"unicode"
)

// Language selects response phrasing. The core is language-agnostic
// beyond choosing templates.
type Language string

const (
	LangEnglish Language = "en"
	LangUrdu    Language = "ur"
)

// Utterance is one recognized phrase as delivered by the STT adapter.
type Utterance struct {
	Text     string   `json:"text"`
	Language Language `json:"language"`
}

// Speaker renders a response as audio. Fire-and-forget: the core never
// consumes a return value beyond an error for metrics.
type Speaker interface {
	Speak(text string, lang Language) error
}

// LogSpeaker is the default Speaker when no TTS adapter is attached.
type LogSpeaker struct{}

func (LogSpeaker) Speak(text string, lang Language) error {
	log.Printf("speak [%s]: %s", lang, text)
	return nil
}

// DetectLanguage classifies text as Urdu when it contains Arabic-script
// runes, else English.
func DetectLanguage(text string) Language {
	for _, r := range text {
		if unicode.In(r, unicode.Arabic) {
			return LangUrdu
		}
	}
	return LangEnglish
}

// Normalize lowercases and trims an utterance for matching.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
