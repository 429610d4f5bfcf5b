package cli

import (
	"context"
	"fmt"
	"text/template"
	"time"
)

// recentLimit число документов в выводе recent
const recentLimit = 10

// runOpen записывает локатор в хранилище; переключение выполняет resolver,
// который следит за сохраненным локатором
func (c *Cli) runOpen(ctx context.Context, args string) error {
	if args == "" {
		return fmt.Errorf("usage: %s", c.commands["open"].usage)
	}
	if err := c.store.SetLocator(ctx, args); err != nil {
		return fmt.Errorf("failed to store locator: %w", err)
	}
	c.io.Printf("Opening %s...\n", args)
	return nil
}

// runNew сбрасывает локатор: resolver создает документ и записывает новый локатор обратно
func (c *Cli) runNew(ctx context.Context, _ string) error {
	if err := c.store.SetLocator(ctx, ""); err != nil {
		return fmt.Errorf("failed to store locator: %w", err)
	}
	c.io.Println("Creating a new document...")
	return nil
}

const recentTemplate = `Recent documents:
{{- range .}}
  {{.Locator}}  {{opened .OpenedAt}}
{{- else}}
  none
{{- end}}
`

var recentTmpl = template.Must(template.New("recent").Funcs(template.FuncMap{
	"opened": func(nanos int64) string {
		return time.Unix(0, nanos).Format(time.DateTime)
	},
}).Parse(recentTemplate))

func (c *Cli) runRecent(ctx context.Context, _ string) error {
	docs, err := c.store.RecentDocuments(ctx, recentLimit)
	if err != nil {
		return fmt.Errorf("failed to list recent documents: %w", err)
	}
	return recentTmpl.Execute(c.io, docs)
}
