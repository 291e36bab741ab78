package main

import (
	"context"

	"github.com/jward/trellis"
	"github.com/spf13/cobra"
)

var (
	flagRefsLocale string
	flagReverse    bool
	flagDepth      int
)

var refsCmd = &cobra.Command{
	Use:   "refs <key> [locales-root]",
	Short: "Walk the reference graph from a key",
	Long: "Shows which keys a string depends on (forward), or which strings would break " +
		"if it changed (--reverse), as a breadth-first traversal of the reference graph.",
	Args: cobra.RangeArgs(1, 2),
	RunE: runRefs,
}

func init() {
	refsCmd.Flags().StringVar(&flagRefsLocale, "locale", "", "locale to inspect (default: the default locale)")
	refsCmd.Flags().BoolVar(&flagReverse, "reverse", false, "walk dependents instead of references")
	refsCmd.Flags().IntVar(&flagDepth, "depth", 10, "maximum traversal depth")
}

func runRefs(cmd *cobra.Command, args []string) error {
	key := args[0]

	root, err := resolveLocalesRoot(args[1:])
	if err != nil {
		return outputError("refs", err)
	}

	ctx := context.Background()
	e, err := loadEngine(ctx, root)
	if err != nil {
		return outputError("refs", err)
	}

	locale := flagRefsLocale
	if locale == "" {
		locale = flagDefault
	}
	graph, err := e.Graph(locale)
	if err != nil {
		return outputError("refs", err)
	}

	var traversal *trellis.Traversal
	if flagReverse {
		traversal, err = graph.TransitiveDependents(key, flagDepth)
	} else {
		traversal, err = graph.TransitiveReferences(key, flagDepth)
	}
	if err != nil {
		return outputError("refs", err)
	}
	return outputResult(CLIResult{Command: "refs", Results: traversal})
}
