package postgres

import (
	"fmt"
	"strings"

	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
)

// scopeClause traduce el predicado de visibilidad a SQL sobre una tabla con
// company_id y project_id (alias alias). Devuelve el fragmento para AND y sus
// argumentos, numerados a partir de next.
func scopeClause(scope access.Scope, alias, projectCol string, next int) (string, []any) {
	var (
		parts []string
		args  []any
	)
	if scope.CompanyID != 0 {
		parts = append(parts, fmt.Sprintf("%s.company_id = $%d", alias, next))
		args = append(args, scope.CompanyID)
		next++
	}
	if scope.MemberUserID != 0 {
		parts = append(parts, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM project_members pm WHERE pm.project_id = %s.%s AND pm.user_id = $%d AND pm.is_deleted = FALSE)",
			alias, projectCol, next))
		args = append(args, scope.MemberUserID)
	}
	if len(parts) == 0 {
		return "TRUE", nil
	}
	return strings.Join(parts, " AND "), args
}
