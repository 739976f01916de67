/*
Minnow judges sentences of a language against its definition.

It reads a language-definition file (token classes, ignored characters,
delimiters, a grammar and a parsing method), assembles the lexer and the
generated parser, and then analyzes input: either a file given with --input,
or lines read interactively from stdin, one sentence per line. Each sentence
is answered with ACCEPT or with the rejection rendering that highlights the
offending token.

Usage:

	minnow [flags]

The flags are:

	-v, --version
		Give the current version of minnow and then exit.

	-l, --lang FILE
		Use the provided language-definition file. Defaults to the file
		"lang.toml" in the current working directory.

	-i, --input FILE
		Analyze the contents of FILE as a single sentence and exit instead
		of starting an interactive session.

	-d, --direct
		Force reading directly from stdin instead of going through GNU
		readline based routines even if launched in a tty.

	-t, --table
		Print the generated parse table before analyzing anything.

	-V, --verbose
		Enable diagnostic output while assembling the front end.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	"github.com/spf13/pflag"

	"github.com/dekarrin/minnow"
	"github.com/dekarrin/minnow/internal/input"
	"github.com/dekarrin/minnow/internal/langdef"
	"github.com/dekarrin/minnow/internal/version"
	"github.com/dekarrin/minnow/parse"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitRejected indicates that the analyzed input was rejected.
	ExitRejected

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue assembling the front end.
	ExitInitError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	langFile    *string = pflag.StringP("lang", "l", "lang.toml", "The language-definition file to assemble the front end from")
	inputFile   *string = pflag.StringP("input", "i", "", "Analyze the contents of this file instead of starting a session")
	forceDirect *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	showTable   *bool   = pflag.BoolP("table", "t", false, "Print the generated parse table before analyzing")
	verbose     *bool   = pflag.BoolP("verbose", "V", false, "Enable diagnostic output")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}

	gologger.Debug().Msgf("loading language definition from %q", *langFile)
	lang, err := langdef.LoadFile(*langFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	gologger.Debug().Msgf("definition has %d token classes and %d grammar lines; parser is %s", len(lang.Tokens), len(lang.Grammar), lang.Parser)

	fe, err := minnow.New(lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	gologger.Debug().Msgf("front end assembled; grammar start symbol is %s", fe.CFG().Start())

	if *showTable {
		printTable(fe.Parser())
	}

	if *inputFile != "" {
		data, err := os.ReadFile(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}

		if !report(fe.Analyze(string(data))) {
			returnCode = ExitRejected
		}
		return
	}

	if err := runSession(fe, *forceDirect); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
	}
}

// runSession reads sentences line by line and judges each one.
func runSession(fe *minnow.Frontend, forceDirect bool) error {
	var reader input.LineReader
	var err error

	if forceDirect {
		reader = input.NewDirectReader(os.Stdin)
	} else {
		reader, err = input.NewInteractiveReader()
		if err != nil {
			gologger.Debug().Msgf("readline unavailable (%v); falling back to direct reads", err)
			reader = input.NewDirectReader(os.Stdin)
		}
	}
	defer reader.Close()

	for {
		line, err := reader.ReadLine()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		report(fe.Analyze(line))
	}
}

// report prints the verdict of one analysis and returns whether it was an
// accept.
func report(result parse.Result) bool {
	if result.Accepted {
		fmt.Println("ACCEPT")
		return true
	}

	fmt.Println(result.ErrorMessage)
	return false
}

// printTable prints the parse table of whichever parser the front end uses.
func printTable(p parse.Parser) {
	type tableStringer interface {
		TableString() string
	}

	if ts, ok := p.(tableStringer); ok {
		fmt.Println(ts.TableString())
	}
}
