package main

import (
	"context"
	"errors"

	mdsite "github.com/alnah/go-mdsite"
	"github.com/alnah/go-mdsite/internal/config"
	"github.com/alnah/go-mdsite/internal/hints"
)

// hintFor returns the hint line appended to a reported error, or "".
func hintFor(err error) string {
	if err == nil {
		return ""
	}

	var texts []string
	add := func(target error, hint string) {
		if errors.Is(err, target) {
			texts = append(texts, hint)
		}
	}

	add(ErrUsage, hints.ForUsage(""))
	add(config.ErrConfigNotFound, hints.ForConfigNotFound(config.SearchPaths(config.DefaultConfigName)))
	add(context.DeadlineExceeded, hints.ForTimeout())
	add(mdsite.ErrStyleNotFound, hints.ForStyleNotFound(mdsite.EmbeddedStyles()))
	add(mdsite.ErrFrontMatter, hints.ForFrontMatter())
	add(ErrDuplicateSlugs, hints.ForDuplicateSlugs())
	add(ErrOutputClash, hints.ForStaticClash())
	add(ErrWritePage, hints.ForOutputDirectory())

	return hints.Combine(texts...)
}
