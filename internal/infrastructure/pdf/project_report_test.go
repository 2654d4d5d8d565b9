package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expertzappdev/bizfree-backend/internal/application/ports"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

func ptr(v int64) *int64 { return &v }

func sampleReport() ports.ProjectReport {
	return ports.ProjectReport{
		Project: &entity.Project{ID: 100, CompanyID: 7, Name: "Sede norte", Status: entity.ProjectStatusActive, Budget: decimal.NewFromInt(2500000)},
		TaskLists: []*entity.TaskList{
			{ID: 11, ProjectID: 100, Name: "Diseño"},
			{ID: 12, ProjectID: 100, Name: "Obra"},
		},
		Tasks: []*entity.Task{
			{ID: 51, TaskListID: ptr(11), ParentTaskID: ptr(50), Title: "Cotas"},
			{ID: 50, TaskListID: ptr(11), Title: "Planos", AssignedTo: ptr(3), EstimatedHours: decimal.NewFromInt(8)},
			{ID: 60, TaskListID: ptr(12), Title: "Cimientos", EstimatedHours: decimal.RequireFromString("2.5")},
			{ID: 61, Title: "Suelta"},
		},
	}
}

func TestGenerateProjectReport_PDFValido(t *testing.T) {
	g := NewMarotoReportGenerator()
	g.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	out, err := g.GenerateProjectReport(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestGenerateProjectReport_ProyectoNulo(t *testing.T) {
	_, err := NewMarotoReportGenerator().GenerateProjectReport(context.Background(), ports.ProjectReport{})
	assert.Error(t, err)
}

func TestGroupByList_SubtareasBajoSuPadre(t *testing.T) {
	r := sampleReport()
	sections := groupByList(r.TaskLists, r.Tasks)
	require.Len(t, sections, 3)

	assert.Equal(t, "Diseño", sections[0].name)
	require.Len(t, sections[0].tasks, 2)
	assert.Equal(t, int64(50), sections[0].tasks[0].ID)
	assert.Equal(t, int64(51), sections[0].tasks[1].ID)

	assert.Equal(t, "Obra", sections[1].name)
	assert.Equal(t, "Sin lista", sections[2].name)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.000.000", formatMoney("1000000"))
	assert.Equal(t, "999", formatMoney("999"))
	assert.Equal(t, "-1.000", formatMoney("-1000"))
}
