package employee_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jdsuarez23/comfachoco/internal/employee"
)

func TestEmployee_TenureYears(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("full years of service", func(t *testing.T) {
		e := &employee.Employee{HireDate: time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC)}
		assert.Equal(t, 6, e.TenureYears(now))
	})

	t.Run("partial year floors down", func(t *testing.T) {
		e := &employee.Employee{HireDate: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)}
		assert.Equal(t, 0, e.TenureYears(now))
	})

	t.Run("zero hire date", func(t *testing.T) {
		e := &employee.Employee{}
		assert.Equal(t, 0, e.TenureYears(now))
	})

	t.Run("future hire date", func(t *testing.T) {
		e := &employee.Employee{HireDate: now.AddDate(0, 1, 0)}
		assert.Equal(t, 0, e.TenureYears(now))
	})
}
