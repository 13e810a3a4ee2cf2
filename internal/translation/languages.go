package translation

import (
	"sort"
	"strings"

	"glot.fit/lingocart/internal/language"
)

type LanguageOption struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Native string `json:"native,omitempty"`
}

type languageLabel struct {
	english string
	chinese string
}

var languageLabels = map[string]languageLabel{
	"ar": {english: "Arabic", chinese: "阿拉伯语"},
	"de": {english: "German", chinese: "德语"},
	"en": {english: "English", chinese: "英语"},
	"es": {english: "Spanish", chinese: "西班牙语"},
	"fr": {english: "French", chinese: "法语"},
	"id": {english: "Indonesian", chinese: "印度尼西亚语"},
	"it": {english: "Italian", chinese: "意大利语"},
	"ja": {english: "Japanese", chinese: "日语"},
	"ko": {english: "Korean", chinese: "韩语"},
	"pl": {english: "Polish", chinese: "波兰语"},
	"pt": {english: "Portuguese", chinese: "葡萄牙语"},
	"ru": {english: "Russian", chinese: "俄语"},
	"th": {english: "Thai", chinese: "泰语"},
	"tr": {english: "Turkish", chinese: "土耳其语"},
	"vi": {english: "Vietnamese", chinese: "越南语"},
	"zh": {english: "Chinese", chinese: "中文"},
}

func normalizeLangCode(raw string) string {
	return language.NormalizeCode(raw)
}

// SupportedLanguageCodes lists the language codes with label entries.
func SupportedLanguageCodes() []string {
	codes := make([]string, 0, len(languageLabels))
	for code := range languageLabels {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LanguageOptions merges label-table languages with everything the
// registered providers advertise.
func LanguageOptions(registry *Registry) []LanguageOption {
	supported := map[string]struct{}{}

	for code := range languageLabels {
		normalized := normalizeLangCode(code)
		if normalized == "" {
			continue
		}
		supported[normalized] = struct{}{}
	}

	if registry != nil {
		for _, provider := range registry.providers {
			for _, code := range provider.SupportedLanguages() {
				normalized := normalizeLangCode(code)
				if normalized == "" {
					continue
				}
				supported[normalized] = struct{}{}
			}
		}
	}

	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	options := make([]LanguageOption, 0, len(codes))
	for _, code := range codes {
		labels, hasLabels := languageLabels[code]
		if hasLabels {
			options = append(options, LanguageOption{
				Code:   code,
				Label:  labels.english,
				Native: labels.chinese,
			})
			continue
		}

		options = append(options, LanguageOption{
			Code:  code,
			Label: strings.ToUpper(code),
		})
	}

	return options
}
