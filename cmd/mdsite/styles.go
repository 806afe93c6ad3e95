package main

import (
	"fmt"
	"io"

	mdsite "github.com/alnah/go-mdsite"
	"github.com/alnah/go-mdsite/internal/mdx"
)

// runStyles implements the styles command.
func runStyles(args []string, env *Environment) error {
	flags, positional, err := parseStylesFlags(args)
	if err != nil {
		return handleFlagError(err, "styles", printStylesUsage, env)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: styles takes at most one name, got %d", ErrUsage, len(positional))
	}

	if flags.list {
		printStyleList(env.Stdout)
		return nil
	}

	name := mdx.DefaultChromaStyle
	if len(positional) == 1 {
		name = positional[0]
	}
	if !isChromaStyle(name) {
		return fmt.Errorf("%w: unknown code style %q (see 'mdsite styles --list')", ErrUsage, name)
	}

	css, err := mdx.ChromaCSS(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(env.Stdout, css)
	return err
}

func printStyleList(w io.Writer) {
	fmt.Fprintln(w, "Site styles:")
	for _, name := range mdsite.EmbeddedStyles() {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Code styles:")
	for _, name := range mdx.ChromaStyles() {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

func isChromaStyle(name string) bool {
	for _, n := range mdx.ChromaStyles() {
		if n == name {
			return true
		}
	}
	return false
}
