package cli

import "time"

// StringFlag is a definition of a command flag expected to be parsed as a
// string. A path is a string flag too.
//
// - implements cli.Flag
type StringFlag struct {
	Name     string
	Aliases  []string
	Usage    string
	Required bool
	Value    string
}

// Flag implements cli.Flag.
func (flag StringFlag) Flag() {}

// StringSliceFlag is a definition of a command flag that can be set several
// times.
//
// - implements cli.Flag
type StringSliceFlag struct {
	Name     string
	Aliases  []string
	Usage    string
	Required bool
	Value    []string
}

// Flag implements cli.Flag.
func (flag StringSliceFlag) Flag() {}

// DurationFlag is a definition of a command flag expected to be parsed as a
// duration, like "30s".
//
// - implements cli.Flag
type DurationFlag struct {
	Name     string
	Aliases  []string
	Usage    string
	Required bool
	Value    time.Duration
}

// Flag implements cli.Flag.
func (flag DurationFlag) Flag() {}

// IntFlag is a definition of a command flag expected to be parsed as an
// integer.
//
// - implements cli.Flag
type IntFlag struct {
	Name     string
	Aliases  []string
	Usage    string
	Required bool
	Value    int
}

// Flag implements cli.Flag.
func (flag IntFlag) Flag() {}

// BoolFlag is a definition of a command flag that is either present or not.
//
// - implements cli.Flag
type BoolFlag struct {
	Name    string
	Aliases []string
	Usage   string
	Value   bool
}

// Flag implements cli.Flag.
func (flag BoolFlag) Flag() {}
