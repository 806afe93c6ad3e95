// Package mdsite renders Markdown notes into the pages of a static notes site.
//
// # Quick Start
//
// Create a renderer, then render each note and the index:
//
//	r, err := mdsite.NewRenderer(mdsite.WithSite(mdsite.Site{
//	    Title: "Notes",
//	    Lang:  "en",
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page, err := r.Render(ctx, mdsite.Input{
//	    Markdown:   source,
//	    SourcePath: "travel/kyoto.md",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("public/n/"+page.Slug+"/index.html", page.HTML, 0o644)
//
//	index, err := r.RenderIndex(ctx, []mdsite.NoteEntry{page.Entry()})
//
// # Rendering Pipeline
//
// Each note goes through these stages:
//
//  1. Front matter parsing (title, slug, summary, date, draft, tags)
//  2. Markdown preprocessing (line endings, ==highlight== syntax)
//  3. Markdown to HTML via goldmark with per-element classes, link
//     classification, chroma highlighting and table blocks
//  4. Relative path rewriting against the note's site directory
//  5. Layout (root document, notes chrome) and CSS and script injection
//
// Relative links to other notes ("kyoto.md#day-one") become note routes
// ("/n/kyoto#day-one"). Internal links carry data-router-link so the embedded
// router script navigates without a full reload; external links open in a new
// tab with rel="noopener noreferrer".
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r, err := mdsite.NewRenderer(
//	    mdsite.WithNoteRoute("/notes"),
//	    mdsite.WithBasePath("/blog"),
//	    mdsite.WithDateFormat("long"),
//	    mdsite.WithElementClasses(map[string]string{"h2": "scroll-mt-24"}),
//	    mdsite.WithCodeStyle("monokai"),
//	)
//
// # Parallel Processing
//
// A Renderer is safe for concurrent use. RendererPool bounds concurrency for
// batch builds:
//
//	pool := mdsite.NewRendererPool(mdsite.ResolvePoolSize(0), opts...)
//	defer pool.Close()
//
//	r, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(r)
//
// # Custom Assets
//
// Override built-in styles, scripts and layouts using AssetLoader:
//
//	loader, err := mdsite.NewAssetLoader("/path/to/assets")
//	r, err := mdsite.NewRenderer(mdsite.WithAssetLoader(loader))
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	├── scripts/
//	│   ├── progress.js
//	│   └── router.js
//	└── templates/
//	    └── default/
//	        ├── root.html
//	        ├── notes.html
//	        └── index.html
//
// Missing files fall back to the embedded defaults.
//
// # Error Handling
//
// Errors can be inspected with errors.Is against the exported sentinels:
//
//	page, err := r.Render(ctx, input)
//	if errors.Is(err, mdsite.ErrFrontMatter) {
//	    // fix the note header
//	}
package mdsite
