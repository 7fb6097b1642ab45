package auth

const RoleManager = "manager"

const (
	PermEntriesRead   = "entries.read"
	PermEntriesWrite  = "entries.write"
	PermPayrollRead   = "payroll.read"
	PermPayrollWrite  = "payroll.write"
	PermInvoicesWrite = "invoices.write"
	PermOverviewRead  = "overview.read"
	PermMetricsRead   = "metrics.read"
)

var RolePermissions = map[string][]string{
	RoleManager: {
		PermEntriesRead,
		PermEntriesWrite,
		PermPayrollRead,
		PermPayrollWrite,
		PermInvoicesWrite,
		PermOverviewRead,
		PermMetricsRead,
	},
}

func HasPermission(role, permission string) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
