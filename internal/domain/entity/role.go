package entity

// Roles reconocidos por la matriz de visibilidad.
const (
	RoleSuperAdmin     int64 = 1 // toda la plataforma
	RoleCompanyAdmin   int64 = 2 // toda su empresa
	RoleEmployee       int64 = 3 // proyectos donde es miembro
	RoleDepartmentHead int64 = 4 // toda su empresa
)

// Role rol asignable a una credencial.
type Role struct {
	ID        int64
	Name      string
	CompanyID *int64
	IsAdmin   bool
}

// Permission capacidad con nombre agrupada por módulo.
type Permission struct {
	ID       int64
	Name     string
	ModuleID int64
}

// RolePermission concede un permiso a un rol dentro de una empresa.
type RolePermission struct {
	RoleID       int64
	CompanyID    int64
	PermissionID int64
}
