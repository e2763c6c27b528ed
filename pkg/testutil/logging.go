package testutil

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Packages importing testutil log everything at trace level, but only print
// it when tests run with -v. Flags aren't parsed yet during init, hence the
// raw argument scan.
func init() {
	logrus.SetLevel(logrus.TraceLevel)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if !verbose(os.Args[1:]) {
		logrus.SetOutput(io.Discard)
	}
}

func verbose(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-test.v", "-test.v=true", "--test.v", "--test.v=true":
			return true
		}
	}
	return false
}
