package cli

import (
	"github.com/spf13/cobra"

	"github.com/zapponejosh/liturgical-calendar/internal/engine"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
)

// calendarFlags are the calendar parameters shared by compute and advisories.
type calendarFlags struct {
	year              int
	yearType          string
	locale            string
	nation            string
	diocese           string
	epiphany          string
	ascension         string
	corpusChristi     string
	eternalHighPriest bool
}

func (f *calendarFlags) bind(cmd *cobra.Command, defaultYear int) {
	flags := cmd.Flags()
	flags.IntVarP(&f.year, "year", "y", defaultYear, "calendar year")
	flags.StringVar(&f.yearType, "type", "civil", "year type: civil or liturgical")
	flags.StringVarP(&f.locale, "locale", "l", "", "locale of celebration names (default: the scope's first locale)")
	flags.StringVarP(&f.nation, "nation", "n", "", "national calendar, e.g. US")
	flags.StringVarP(&f.diocese, "diocese", "d", "", "diocesan calendar, e.g. boston")
	flags.StringVar(&f.epiphany, "epiphany", "", "JAN6 or SUNDAY_JAN2_JAN8")
	flags.StringVar(&f.ascension, "ascension", "", "THURSDAY or SUNDAY")
	flags.StringVar(&f.corpusChristi, "corpus-christi", "", "THURSDAY or SUNDAY")
	flags.BoolVar(&f.eternalHighPriest, "eternal-high-priest", false, "celebrate Christ the Eternal High Priest")
}

// params converts the flags, leaving unset settings to the scope.
func (f *calendarFlags) params(cmd *cobra.Command) (engine.Params, error) {
	yearType, err := engine.ParseYearType(f.yearType)
	if err != nil {
		return engine.Params{}, err
	}
	p := engine.Params{
		Year:     f.year,
		YearType: yearType,
		Locale:   f.locale,
		Nation:   f.nation,
		Diocese:  f.diocese,
	}

	if f.epiphany != "" {
		v, err := liturgy.ParseEpiphany(f.epiphany)
		if err != nil {
			return p, err
		}
		p.Epiphany = &v
	}
	if f.ascension != "" {
		v, err := liturgy.ParseAscension(f.ascension)
		if err != nil {
			return p, err
		}
		p.Ascension = &v
	}
	if f.corpusChristi != "" {
		v, err := liturgy.ParseCorpusChristi(f.corpusChristi)
		if err != nil {
			return p, err
		}
		p.CorpusChristi = &v
	}
	if cmd.Flags().Changed("eternal-high-priest") {
		v := f.eternalHighPriest
		p.EternalHighPriest = &v
	}
	return p, nil
}
