package employee

type CreateEmployeeRequest struct {
	FullName   string  `json:"full_name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	Role       string  `json:"role" binding:"omitempty,oneof=EMPLOYEE MANAGER ADMIN"`
	Department string  `json:"department"`
	ManagerID  *string `json:"manager_id" binding:"omitempty,uuid"`
}

type UpdateEmployeeRequest struct {
	FullName   string          `json:"full_name"`
	Email      string          `json:"email" binding:"omitempty,email"`
	Role       string          `json:"role" binding:"omitempty,oneof=EMPLOYEE MANAGER ADMIN"`
	Department string          `json:"department"`
	ManagerID  *string         `json:"manager_id" binding:"omitempty,uuid"`
	Balances   *BalanceRequest `json:"balances"`
}

// BalanceRequest carries an absolute balance override (admin only).
// Nil fields leave the stored value untouched.
type BalanceRequest struct {
	Sick     *int `json:"sick" binding:"omitempty,gte=0"`
	Casual   *int `json:"casual" binding:"omitempty,gte=0"`
	Vacation *int `json:"vacation" binding:"omitempty,gte=0"`
}

// AccrueRequest adds a delta to every employee's balances. The admin UI only
// offers non-negative increments; the operation itself accepts any sign.
type AccrueRequest struct {
	Sick     int `json:"sick"`
	Casual   int `json:"casual"`
	Vacation int `json:"vacation"`
}

type BalanceResponse struct {
	Sick     int `json:"sick"`
	Casual   int `json:"casual"`
	Vacation int `json:"vacation"`
}

type EmployeeResponse struct {
	ID             string          `json:"id"`
	EmployeeNumber string          `json:"employee_number"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	Role           string          `json:"role"`
	Department     string          `json:"department"`
	ManagerID      *string         `json:"manager_id,omitempty"`
	Balances       BalanceResponse `json:"balances"`
}

// OptionResponse is the trimmed shape used by manager/approver pickers.
type OptionResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type AccrueResponse struct {
	UpdatedCount int64 `json:"updated_count"`
}

type DashboardStatsResponse struct {
	TotalEmployees   int64 `json:"total_employees"`
	TotalRequests    int64 `json:"total_requests"`
	PendingRequests  int64 `json:"pending_requests"`
	ApprovedRequests int64 `json:"approved_requests"`
	RejectedRequests int64 `json:"rejected_requests"`
}
