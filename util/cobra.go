package util

import (
	"strings"

	"github.com/spf13/pflag"
)

// ExtractUnknownArgs returns the arguments that are neither a known flag
// nor the value of one, e.g. a bare log level passed positionally.
func ExtractUnknownArgs(flags *pflag.FlagSet, args []string) []string {
	var unknown []string

	for i := 0; i < len(args); i++ {
		a := args[i]

		f := lookupFlag(flags, a)
		if f == nil {
			unknown = append(unknown, a)
			continue
		}

		// skip the separate value of a non boolean flag
		if f.NoOptDefVal == "" && !strings.Contains(a, "=") && i+1 < len(args) && f.Value.String() == args[i+1] {
			i++
		}
	}

	return unknown
}

func lookupFlag(flags *pflag.FlagSet, a string) *pflag.Flag {
	switch {
	case len(a) < 2 || a[0] != '-':
		return nil
	case a[1] == '-':
		return flags.Lookup(strings.SplitN(a[2:], "=", 2)[0])
	}

	var f *pflag.Flag

	for _, s := range a[1:] {
		if f = flags.ShorthandLookup(string(s)); f == nil {
			break
		}
	}

	return f
}
