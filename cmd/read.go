package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/zaoqi-unsafe/aydede/scheme"
)

var inFile string
var verboseMode bool

var readCommand = cli.Command{
	Name:    "read",
	Aliases: []string{"r"},
	Usage:   "Read a program and print one line per top-level form",
	Action:  read,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:        "input",
			Usage:       "input source file (defaults to stdin)",
			Required:    false,
			TakesFile:   true,
			Destination: &inFile,
		},
		cli.BoolFlag{
			Name:        "v",
			Usage:       "verbose logging",
			Destination: &verboseMode,
		},
	},
}

var datumCommand = cli.Command{
	Name:    "datum",
	Aliases: []string{"d"},
	Usage:   "Read a single datum and print it back",
	Action:  datum,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:        "input",
			Usage:       "input source file (defaults to stdin)",
			Required:    false,
			TakesFile:   true,
			Destination: &inFile,
		},
		cli.BoolFlag{
			Name:        "v",
			Usage:       "verbose logging",
			Destination: &verboseMode,
		},
	},
}

func loadInput() (string, error) {
	switch inFile {
	case "", "-":
		buf, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(buf), nil
	default:
		buf, err := ioutil.ReadFile(inFile)
		if err != nil {
			return "", err
		}
		return string(buf), nil
	}
}

func read(c *cli.Context) error {
	input, err := loadInput()
	if err != nil {
		return err
	}
	if verboseMode {
		logrus.SetLevel(logrus.TraceLevel)
	}
	forms, err := scheme.Parse(input, scheme.Model{})
	if err != nil {
		return err
	}
	for _, form := range forms {
		fmt.Println(scheme.WriteString(form))
	}
	return nil
}

func datum(c *cli.Context) error {
	input, err := loadInput()
	if err != nil {
		return err
	}
	if verboseMode {
		logrus.SetLevel(logrus.TraceLevel)
	}
	v, err := scheme.ParseDatum(input, scheme.Model{})
	if err != nil {
		return err
	}
	fmt.Println(scheme.WriteString(v))
	return nil
}
