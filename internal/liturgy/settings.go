package liturgy

import (
	"fmt"
	"strings"
)

// EpiphanySetting selects where the Epiphany is celebrated.
type EpiphanySetting string

const (
	EpiphanyJan6   EpiphanySetting = "JAN6"
	EpiphanySunday EpiphanySetting = "SUNDAY_JAN2_JAN8"
)

// AscensionSetting selects the day of the Ascension.
type AscensionSetting string

const (
	AscensionThursday AscensionSetting = "THURSDAY"
	AscensionSunday   AscensionSetting = "SUNDAY"
)

// CorpusChristiSetting selects the day of Corpus Christi.
type CorpusChristiSetting string

const (
	CorpusChristiThursday CorpusChristiSetting = "THURSDAY"
	CorpusChristiSunday   CorpusChristiSetting = "SUNDAY"
)

// ParseEpiphany accepts JAN6 or SUNDAY_JAN2_JAN8, case-insensitively.
func ParseEpiphany(s string) (EpiphanySetting, error) {
	switch v := EpiphanySetting(strings.ToUpper(strings.TrimSpace(s))); v {
	case EpiphanyJan6, EpiphanySunday:
		return v, nil
	}
	return "", fmt.Errorf("invalid epiphany setting %q", s)
}

// ParseAscension accepts THURSDAY or SUNDAY, case-insensitively.
func ParseAscension(s string) (AscensionSetting, error) {
	switch v := AscensionSetting(strings.ToUpper(strings.TrimSpace(s))); v {
	case AscensionThursday, AscensionSunday:
		return v, nil
	}
	return "", fmt.Errorf("invalid ascension setting %q", s)
}

// ParseCorpusChristi accepts THURSDAY or SUNDAY, case-insensitively.
func ParseCorpusChristi(s string) (CorpusChristiSetting, error) {
	switch v := CorpusChristiSetting(strings.ToUpper(strings.TrimSpace(s))); v {
	case CorpusChristiThursday, CorpusChristiSunday:
		return v, nil
	}
	return "", fmt.Errorf("invalid corpus christi setting %q", s)
}
