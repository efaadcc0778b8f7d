package main

import (
	"context"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/harness-community/drone-junit-report/plugin"
)

func main() {
	var args plugin.Args
	if err := envconfig.Process("", &args); err != nil {
		logrus.Fatalln("Invalid plugin configuration:", err)
	}

	if args.Level != "" {
		level, err := logrus.ParseLevel(args.Level)
		if err != nil {
			logrus.WithField("Level", args.Level).Warn("Unknown log level, using the default")
		} else {
			logrus.SetLevel(level)
		}
	}

	if err := plugin.ValidateInputs(args); err != nil {
		logrus.Fatalln(err)
	}

	if _, err := plugin.Exec(context.Background(), args); err != nil {
		logrus.Fatalln(err)
	}
}
