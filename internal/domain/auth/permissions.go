package auth

const (
	RoleSpecialist = "PAYROLL_SPECIALIST"
	RoleManager    = "PAYROLL_MANAGER"
	RoleHRAdmin    = "HR_ADMIN"
)

const (
	PermEmployeesRead      = "employees.read"
	PermEmployeesWrite     = "employees.write"
	PermPayrollRead        = "payroll.read"
	PermPayrollRun         = "payroll.run"
	PermPayrollPublish     = "payroll.publish"
	PermPayrollApprove     = "payroll.approve"
	PermPayrollProcess     = "payroll.process"
	PermCompensationRead   = "compensation.read"
	PermCompensationDecide = "compensation.decide"
	PermAuditRead          = "audit.read"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermPayrollRead,
	PermPayrollRun,
	PermPayrollPublish,
	PermPayrollApprove,
	PermPayrollProcess,
	PermCompensationRead,
	PermCompensationDecide,
	PermAuditRead,
}

// Run approval is deliberately absent from the specialist set: the actor who
// publishes a run can never be the one who approves it.
var RolePermissions = map[string][]string{
	RoleSpecialist: {
		PermEmployeesRead,
		PermPayrollRead,
		PermPayrollRun,
		PermPayrollPublish,
		PermCompensationRead,
		PermCompensationDecide,
	},
	RoleManager: {
		PermEmployeesRead,
		PermPayrollRead,
		PermPayrollApprove,
		PermPayrollProcess,
		PermCompensationRead,
		PermAuditRead,
	},
	RoleHRAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermPayrollRead,
		PermPayrollRun,
		PermPayrollPublish,
		PermPayrollApprove,
		PermPayrollProcess,
		PermCompensationRead,
		PermCompensationDecide,
		PermAuditRead,
	},
}
