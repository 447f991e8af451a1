package models

import (
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/localstore"
	"bitbucket.org/karoofoods/biltong_tracker/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const employeeNumberPrefix = "EMP"

type Employee struct {
	ID             string    `json:"id"`
	EmployeeNumber string    `json:"employeeNumber"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Mobile         string    `json:"mobile"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type NewEmployee struct {
	EmployeeNumber string `json:"employeeNumber" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	Mobile         string `json:"mobile" validate:"required"`
	Phone          string `json:"phone"`
	Address        string `json:"address" validate:"required"`
	Notes          string `json:"notes"`
}

func (input *NewEmployee) Validate() error {
	return utils.ValidateStruct(input)
}

type EmployeePatch struct {
	EmployeeNumber *string `json:"employeeNumber,omitempty"`
	Name           *string `json:"name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Mobile         *string `json:"mobile,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Address        *string `json:"address,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

type EmployeeRepository struct {
	col collection[Employee]
}

func NewEmployeeRepository(store localstore.BlobStore, logger *logrus.Logger) *EmployeeRepository {
	return &EmployeeRepository{col: newCollection[Employee](EmployeesKey, store, logger)}
}

func (r *EmployeeRepository) List() []Employee {
	return r.col.load("List")
}

func (r *EmployeeRepository) Get(id string) (Employee, bool) {
	for _, emp := range r.col.load("Get") {
		if emp.ID == id {
			return emp, true
		}
	}
	return Employee{}, false
}

func (r *EmployeeRepository) Create(input NewEmployee) Employee {
	now := nowUTC()
	emp := Employee{
		ID:             uuid.NewString(),
		EmployeeNumber: input.EmployeeNumber,
		Name:           input.Name,
		Email:          input.Email,
		Mobile:         input.Mobile,
		Phone:          input.Phone,
		Address:        input.Address,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	employees := r.col.load("Create")
	employees = append(employees, emp)
	r.col.persist("Create", employees)

	return emp
}

func (r *EmployeeRepository) Update(id string, patch EmployeePatch) (Employee, bool) {
	employees := r.col.load("Update")
	for i, emp := range employees {
		if emp.ID != id {
			continue
		}
		if patch.EmployeeNumber != nil {
			emp.EmployeeNumber = *patch.EmployeeNumber
		}
		if patch.Name != nil {
			emp.Name = *patch.Name
		}
		if patch.Email != nil {
			emp.Email = *patch.Email
		}
		if patch.Mobile != nil {
			emp.Mobile = *patch.Mobile
		}
		if patch.Phone != nil {
			emp.Phone = *patch.Phone
		}
		if patch.Address != nil {
			emp.Address = *patch.Address
		}
		if patch.Notes != nil {
			emp.Notes = *patch.Notes
		}
		emp.UpdatedAt = nowUTC()
		employees[i] = emp
		r.col.persist("Update", employees)
		return emp, true
	}
	return Employee{}, false
}

func (r *EmployeeRepository) Delete(id string) bool {
	employees := r.col.load("Delete")
	remaining := employees[:0:0]
	for _, emp := range employees {
		if emp.ID != id {
			remaining = append(remaining, emp)
		}
	}
	if len(remaining) == len(employees) {
		return false
	}
	return r.col.persist("Delete", remaining)
}

func (r *EmployeeRepository) Put(emp Employee) bool {
	employees := r.col.load("Put")
	for i := range employees {
		if employees[i].ID == emp.ID {
			employees[i] = emp
			return r.col.persist("Put", employees)
		}
	}
	employees = append(employees, emp)
	return r.col.persist("Put", employees)
}

// GenerateEmployeeNumber issues the next free EMPnnnn code. It starts at
// count+1 and increments past any code already in use, so gaps left by
// deletions may be reused but a live code never is.
func (r *EmployeeRepository) GenerateEmployeeNumber() string {
	employees := r.col.load("GenerateEmployeeNumber")
	number := len(employees) + 1
	code := utils.FormatSequenceCode(employeeNumberPrefix, number)
	for employeeNumberTaken(employees, code) {
		number++
		code = utils.FormatSequenceCode(employeeNumberPrefix, number)
	}
	return code
}

func employeeNumberTaken(employees []Employee, code string) bool {
	for _, emp := range employees {
		if emp.EmployeeNumber == code {
			return true
		}
	}
	return false
}
