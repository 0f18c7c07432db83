package cmd

import (
	"flag"

	"github.com/etnz/costbasis/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// fileFlags are the flags naming a file, with the patterns of their
// completion.
var fileFlags = map[string][]string{
	"config":    {"*.toml"},
	"portfolio": {"*.json", "*.yaml", "*.yml"},
	"png":       {"*.png"},
}

// Completion returns the shell completion of cbs: its global flags and
// every registered subcommand with its own flags.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, group := range commands() {
		for _, c := range group {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			root.Sub[c.Name()] = &complete.Command{Flags: flagPredictors(fs)}
		}
	}
	root.Sub["fetch"].Args = predict.Something
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch {
		case len(fileFlags[f.Name]) > 0:
			var files []complete.Predictor
			for _, pattern := range fileFlags[f.Name] {
				files = append(files, predict.Files(pattern))
			}
			flags[f.Name] = predict.Or(files...)
		case isBool(f):
			flags[f.Name] = predict.Nothing
		default:
			flags[f.Name] = predict.Something
		}
	})
	return flags
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
