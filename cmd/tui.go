package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"

	"github.com/ThatCatDev/venvdash/internal/apiclient"
	"github.com/ThatCatDev/venvdash/pkg/api"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse environments in a terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiclient.New(serverURL)
		if err := client.Health(cmd.Context()); err != nil {
			return fmt.Errorf("server not reachable at %s: %w", serverURL, err)
		}
		return newTuiApp(cmd.Context(), client).run()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

const requestTimeout = 15 * time.Minute

type tuiApp struct {
	ctx    context.Context
	client *apiclient.Client

	app       *tview.Application
	pages     *tview.Pages
	rootFlex  *tview.Flex
	table     *tview.Table
	detail    *tview.TextView
	statusBar *tview.TextView

	envs []api.Environment
}

func newTuiApp(ctx context.Context, client *apiclient.Client) *tuiApp {
	t := &tuiApp{ctx: ctx, client: client}

	t.app = tview.NewApplication()

	t.table = tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	t.table.SetBorder(true).SetTitle(" Entornos ")
	t.table.SetSelectionChangedFunc(func(row, _ int) {
		if env, ok := t.envAt(row); ok {
			t.detail.SetText(tview.Escape(fmt.Sprintf("%s\n%s\n%s\n\nEnter: ver paquetes", env.Name, env.Version, env.Size)))
		}
	})
	t.table.SetSelectedFunc(func(row, _ int) {
		if env, ok := t.envAt(row); ok {
			t.loadPackages(env)
		}
	})

	t.detail = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	t.detail.SetBorder(true).SetTitle(" Detalle ")

	t.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)

	body := tview.NewFlex().SetDirection(tview.FlexColumn)
	body.AddItem(t.table, 0, 1, true)
	body.AddItem(t.detail, 0, 1, false)

	t.rootFlex = tview.NewFlex().SetDirection(tview.FlexRow)
	t.rootFlex.AddItem(body, 0, 1, true)
	t.rootFlex.AddItem(t.statusBar, 1, 0, false)

	t.pages = tview.NewPages().AddPage("main", t.rootFlex, true, true)

	t.setupInputCapture()
	t.setStatus(keyHints)

	return t
}

const keyHints = "r: refrescar  e: exportar  d: eliminar  tab: cambiar panel  q: salir"

func (t *tuiApp) run() error {
	go t.refresh()
	return t.app.SetRoot(t.pages, true).EnableMouse(true).Run()
}

func (t *tuiApp) setupInputCapture() {
	t.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if name, _ := t.pages.GetFrontPage(); name != "main" {
			return event
		}

		switch event.Key() {
		case tcell.KeyTab:
			if t.table.HasFocus() {
				t.app.SetFocus(t.detail)
			} else {
				t.app.SetFocus(t.table)
			}
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				t.app.Stop()
				return nil
			case 'r':
				go t.refresh()
				return nil
			case 'e':
				if env, ok := t.selected(); ok {
					t.export(env)
				}
				return nil
			case 'd':
				if env, ok := t.selected(); ok {
					t.confirmDelete(env)
				}
				return nil
			}
		}
		return event
	})
}

func (t *tuiApp) selected() (api.Environment, bool) {
	row, _ := t.table.GetSelection()
	return t.envAt(row)
}

// envAt maps a table row to an environment; row 0 is the header.
func (t *tuiApp) envAt(row int) (api.Environment, bool) {
	i := row - 1
	if i < 0 || i >= len(t.envs) {
		return api.Environment{}, false
	}
	return t.envs[i], true
}

func (t *tuiApp) refresh() {
	t.app.QueueUpdateDraw(func() { t.setStatus("Cargando entornos...") })

	ctx, cancel := context.WithTimeout(t.ctx, requestTimeout)
	defer cancel()
	envs, err := t.client.ListEnvironments(ctx)

	t.app.QueueUpdateDraw(func() {
		if err != nil {
			t.setError(err)
			return
		}
		t.envs = envs
		t.fillTable()
		t.setStatus(fmt.Sprintf("%d entornos  %s", len(envs), keyHints))
	})
}

func (t *tuiApp) fillTable() {
	t.table.Clear()
	for col, title := range []string{"Nombre", "Versión", "Tamaño"} {
		t.table.SetCell(0, col, tview.NewTableCell(title).
			SetTextColor(tcell.ColorBlue).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}
	for i, env := range t.envs {
		t.table.SetCell(i+1, 0, tview.NewTableCell(tview.Escape(env.Name)).SetExpansion(1))
		t.table.SetCell(i+1, 1, tview.NewTableCell(tview.Escape(env.Version)))
		t.table.SetCell(i+1, 2, tview.NewTableCell(env.Size).SetAlign(tview.AlignRight))
	}
	if len(t.envs) > 0 {
		t.table.Select(1, 0)
	} else {
		t.detail.SetText("No hay entornos virtuales.")
	}
}

func (t *tuiApp) loadPackages(env api.Environment) {
	t.setStatus("Cargando paquetes de " + env.Name + "...")
	go func() {
		ctx, cancel := context.WithTimeout(t.ctx, requestTimeout)
		defer cancel()
		pkgs, err := t.client.Packages(ctx, env.Name)

		var text string
		if err == nil {
			text = renderMarkdown(packagesMarkdown(env, pkgs))
		}
		t.app.QueueUpdateDraw(func() {
			if err != nil {
				t.setError(err)
				return
			}
			t.detail.SetText(text).ScrollToBeginning()
			t.setStatus(fmt.Sprintf("%d paquetes  %s", len(pkgs), keyHints))
		})
	}()
}

func (t *tuiApp) export(env api.Environment) {
	t.setStatus("Exportando " + env.Name + "...")
	go func() {
		ctx, cancel := context.WithTimeout(t.ctx, requestTimeout)
		defer cancel()
		msg, err := t.client.Export(ctx, env.Name)
		t.app.QueueUpdateDraw(func() {
			if err != nil {
				t.setError(err)
				return
			}
			t.setStatus(msg)
		})
	}()
}

func (t *tuiApp) confirmDelete(env api.Environment) {
	modal := tview.NewModal().
		SetText(fmt.Sprintf("¿Eliminar el entorno %s?", tview.Escape(env.Name))).
		AddButtons([]string{"Eliminar", "Cancelar"}).
		SetDoneFunc(func(_ int, label string) {
			t.pages.RemovePage("confirm")
			t.app.SetFocus(t.table)
			if label == "Eliminar" {
				t.delete(env)
			}
		})
	t.pages.AddPage("confirm", modal, false, true)
}

func (t *tuiApp) delete(env api.Environment) {
	t.setStatus("Eliminando " + env.Name + "...")
	go func() {
		ctx, cancel := context.WithTimeout(t.ctx, requestTimeout)
		defer cancel()
		msg, err := t.client.Delete(ctx, env.Name)
		if err != nil {
			t.app.QueueUpdateDraw(func() { t.setError(err) })
			return
		}
		t.refresh()
		t.app.QueueUpdateDraw(func() { t.setStatus(msg) })
	}()
}

func (t *tuiApp) setStatus(text string) {
	t.statusBar.SetText(" [gray::-]" + tview.Escape(text) + "[-:-:-]")
}

func (t *tuiApp) setError(err error) {
	t.statusBar.SetText(" [red::b]Error:[-:-:-] " + tview.Escape(err.Error()))
}

// packagesMarkdown builds the detail pane document for an environment.
func packagesMarkdown(env api.Environment, pkgs []api.Package) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", markdownEscape(env.Name))
	fmt.Fprintf(&b, "- **Versión:** %s\n- **Tamaño:** %s\n\n", markdownEscape(env.Version), env.Size)

	if len(pkgs) == 0 {
		b.WriteString("_Sin paquetes instalados._\n")
		return b.String()
	}

	b.WriteString("| Paquete | Versión |\n|---|---|\n")
	for _, p := range pkgs {
		fmt.Fprintf(&b, "| %s | %s |\n", markdownEscape(p.Name), markdownEscape(p.Version))
	}
	return b.String()
}

var markdownReplacer = strings.NewReplacer(`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`)

func markdownEscape(s string) string {
	return markdownReplacer.Replace(s)
}

func renderMarkdown(content string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return tview.Escape(content)
	}
	out, err := r.Render(content)
	if err != nil {
		return tview.Escape(content)
	}
	return tview.TranslateANSI(strings.TrimRight(out, "\n"))
}
