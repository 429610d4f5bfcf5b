package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/iudanet/txtpresence/internal/changes"
	"github.com/iudanet/txtpresence/internal/models"
)

func (c *Cli) registerCommands() map[string]command {
	return map[string]command{
		"help":     {run: c.runHelp, usage: "help", help: "show this help"},
		"show":     {run: c.runShow, usage: "show", help: "print the document with remote selections"},
		"insert":   {run: c.runInsert, usage: "insert <pos> <text>", help: "insert text at pos (quote the text to use escapes)"},
		"delete":   {run: c.runDelete, usage: "delete <from> <to>", help: "delete the text between from and to"},
		"select":   {run: c.runSelect, usage: "select <anchor> [head]", help: "move the cursor or select a range"},
		"open":     {run: c.runOpen, usage: "open <locator>", help: "switch to another document"},
		"new":      {run: c.runNew, usage: "new", help: "create a new document and switch to it"},
		"recent":   {run: c.runRecent, usage: "recent", help: "list recently opened documents"},
		"peers":    {run: c.runPeers, usage: "peers", help: "list live peers and their selections"},
		"debug":    {run: c.runDebug, usage: "debug", help: "dump the presence session state"},
		"discover": {run: c.runDiscover, usage: "discover", help: "find relay servers on the local network"},
	}
}

const helpTemplate = `Commands:
{{- range .}}
  {{printf "%-24s" .Usage}} {{.Help}}
{{- end}}
  {{printf "%-24s" "quit"}} exit the client
`

var helpTmpl = template.Must(template.New("help").Parse(helpTemplate))

func (c *Cli) runHelp(_ context.Context, _ string) error {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	type entry struct{ Usage, Help string }
	entries := make([]entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, entry{Usage: c.commands[name].usage, Help: c.commands[name].help})
	}

	return helpTmpl.Execute(c.io, entries)
}

func (c *Cli) runShow(ctx context.Context, _ string) error {
	h, err := c.handle()
	if err != nil {
		return err
	}
	state, err := c.presence.State(ctx)
	if err != nil {
		return err
	}

	text := h.Text()
	c.io.Printf("Document %s (%d chars, %d peers)\n", h.Locator(), utf8.RuneCountInString(text), len(state.Peers))
	c.io.Println("---")
	c.io.Println(c.renderer.Document(text, state.Decorations))
	c.io.Println("---")
	if legend := c.renderer.Legend(state.Decorations); legend != "" {
		c.io.Printf("%s", legend)
	}
	c.io.Printf("Your selection: %s\n", formatSelection(state.Selection))
	return nil
}

func (c *Cli) runInsert(ctx context.Context, args string) error {
	posArg, text, ok := strings.Cut(args, " ")
	if !ok || text == "" {
		return fmt.Errorf("usage: %s", c.commands["insert"].usage)
	}
	pos, err := strconv.Atoi(posArg)
	if err != nil {
		return fmt.Errorf("invalid position %q", posArg)
	}
	if strings.HasPrefix(text, `"`) {
		if text, err = strconv.Unquote(text); err != nil {
			return fmt.Errorf("invalid quoted text: %w", err)
		}
	}

	h, err := c.handle()
	if err != nil {
		return err
	}
	cs, err := changes.Insert(utf8.RuneCountInString(h.Text()), pos, text)
	if err != nil {
		return err
	}
	return h.Change(ctx, cs)
}

func (c *Cli) runDelete(ctx context.Context, args string) error {
	nums, err := parseInts(args, 2, 2)
	if err != nil {
		return fmt.Errorf("usage: %s", c.commands["delete"].usage)
	}

	h, err := c.handle()
	if err != nil {
		return err
	}
	from, to := min(nums[0], nums[1]), max(nums[0], nums[1])
	cs, err := changes.Delete(utf8.RuneCountInString(h.Text()), from, to)
	if err != nil {
		return err
	}
	return h.Change(ctx, cs)
}

func (c *Cli) runSelect(_ context.Context, args string) error {
	nums, err := parseInts(args, 1, 2)
	if err != nil {
		return fmt.Errorf("usage: %s", c.commands["select"].usage)
	}
	if _, err := c.handle(); err != nil {
		return err
	}

	r := models.Cursor(nums[0])
	if len(nums) == 2 {
		r = models.NewRange(nums[0], nums[1])
	}
	return c.presence.SetSelection(models.SingleSelection(r))
}

func parseInts(args string, minN, maxN int) ([]int, error) {
	fields := strings.Fields(args)
	if len(fields) < minN || len(fields) > maxN {
		return nil, fmt.Errorf("expected %d to %d numbers", minN, maxN)
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		out[i] = n
	}
	return out, nil
}

func formatSelection(sel models.Selection) string {
	parts := make([]string, 0, len(sel.Ranges))
	for _, r := range sel.Ranges {
		if r.Empty() {
			parts = append(parts, fmt.Sprintf("cursor at %d", r.Head))
		} else {
			parts = append(parts, fmt.Sprintf("%d..%d", r.Anchor, r.Head))
		}
	}
	return strings.Join(parts, ", ")
}
