// Package pdf genera el informe resumen de un proyecto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del proyecto │  Estado + Fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: descripción, presupuesto, totales                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR CADA LISTA: Tarea | Asignado | Estado | Horas est.      │
//	│  (las subtareas van sangradas bajo su padre)                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/expertzappdev/bizfree-backend/internal/application/ports"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.ProjectReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa ports.ProjectReportGenerator con Maroto v2.
type MarotoReportGenerator struct {
	now func() time.Time
}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator {
	return &MarotoReportGenerator{now: time.Now}
}

// GenerateProjectReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateProjectReport(_ context.Context, r ports.ProjectReport) ([]byte, error) {
	if r.Project == nil {
		return nil, fmt.Errorf("pdf: proyecto nulo")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de proyecto: "+r.Project.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r.Project, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	for _, section := range groupByList(r.TaskLists, r.Tasks) {
		m.AddRows(listTitleRow(section.name))
		m.AddRows(tableHeaderRow())
		m.AddRows(taskRows(section.tasks)...)
		m.AddRows(line.NewRow(3))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(p *entity.Project, now time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(p.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Proyecto #%d · Empresa #%d", p.ID, p.CompanyID), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(statusLabel(p.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Emitido: "+now.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func summaryRow(r ports.ProjectReport) core.Row {
	var hours decimal.Decimal
	for _, t := range r.Tasks {
		hours = hours.Add(t.EstimatedHours)
	}
	return row.New(18).Add(
		col.New(12).Add(
			text.New(nonEmpty(r.Project.Description, "Sin descripción"), props.Text{Size: 8, Top: 1}),
			text.New(fmt.Sprintf("Presupuesto: $%s   |   Listas: %d   |   Tareas: %d   |   Horas estimadas: %s",
				formatMoney(r.Project.Budget.StringFixed(0)),
				len(r.TaskLists),
				len(r.Tasks),
				hours.StringFixed(1),
			), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
	)
}

func listTitleRow(name string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 1}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Tarea", 6, align.Left),
		h("Asignado", 2, align.Center),
		h("Estado", 2, align.Center),
		h("Horas est.", 2, align.Right),
	)
}

func taskRows(tasks []*entity.Task) []core.Row {
	rows := make([]core.Row, 0, len(tasks))
	for _, t := range tasks {
		title := t.Title
		left := 1.0
		if t.IsSubTask() {
			title = "· " + title
			left = 5
		}
		rows = append(rows, row.New(6).Add(
			col.New(6).Add(text.New(title, props.Text{Size: 8, Top: 1, Left: left})),
			col.New(2).Add(text.New(optionalID(t.AssignedTo), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(optionalID(t.StatusID), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(t.EstimatedHours.StringFixed(1), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

type listSection struct {
	name  string
	tasks []*entity.Task
}

// groupByList ordena las tareas por lista y deja cada subtarea justo después
// de su padre. Las tareas sin lista van al final en "Sin lista".
func groupByList(lists []*entity.TaskList, tasks []*entity.Task) []listSection {
	children := map[int64][]*entity.Task{}
	byList := map[int64][]*entity.Task{}
	for _, t := range tasks {
		if t.IsSubTask() {
			children[*t.ParentTaskID] = append(children[*t.ParentTaskID], t)
			continue
		}
		byList[t.List()] = append(byList[t.List()], t)
	}
	flatten := func(roots []*entity.Task) []*entity.Task {
		sort.Slice(roots, func(i, j int) bool { return roots[i].ID < roots[j].ID })
		out := make([]*entity.Task, 0, len(roots))
		for _, r := range roots {
			out = append(out, r)
			kids := children[r.ID]
			sort.Slice(kids, func(i, j int) bool { return kids[i].ID < kids[j].ID })
			out = append(out, kids...)
		}
		return out
	}

	sections := make([]listSection, 0, len(lists)+1)
	for _, l := range lists {
		sections = append(sections, listSection{name: l.Name, tasks: flatten(byList[l.ID])})
	}
	if orphans := byList[0]; len(orphans) > 0 {
		sections = append(sections, listSection{name: "Sin lista", tasks: flatten(orphans)})
	}
	return sections
}

func statusLabel(s string) string {
	switch s {
	case entity.ProjectStatusActive:
		return "ACTIVO"
	case entity.ProjectStatusOnHold:
		return "EN PAUSA"
	case entity.ProjectStatusCompleted:
		return "COMPLETADO"
	}
	return s
}

func optionalID(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("#%d", *id)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
