package clicommon

import (
	"strconv"

	"github.com/spf13/pflag"
)

// LevelledFlag is a counting flag: each bare occurrence (or "=true")
// raises the level by one, "=false" lowers it, and a plain integer
// sets it outright. "-v -v" and "--verbose=2" read the same.
type LevelledFlag int

// AddTo registers f on flags under the given name and shorthand. pflag
// only repeat-counts flags that carry a no-opt default, so a bare
// occurrence reads as "true".
func (f *LevelledFlag) AddTo(flags *pflag.FlagSet, name, shorthand, usage string) {
	flags.VarP(f, name, shorthand, usage)
	flags.Lookup(name).NoOptDefVal = "true"
}

func (f *LevelledFlag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		l, intErr := strconv.ParseInt(s, 10, 64)
		if intErr != nil {
			return err
		}
		*f = LevelledFlag(l)
		return nil
	}
	if v {
		*f++
	} else if *f > 0 {
		*f--
	}
	return nil
}

func (f *LevelledFlag) Type() string {
	return "levelled_flag"
}

func (f *LevelledFlag) String() string {
	return strconv.FormatInt(int64(*f), 10)
}
