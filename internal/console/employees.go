package console

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cast"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/employee/dto"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
)

const dateLayout = "2006-01-02"

func (c *Console) employeeMenu(ctx context.Context) error {
	return c.menu(ctx, "Employees", []menuItem{
		{"1", "List employees", c.listEmployees},
		{"2", "Search employees", c.searchEmployees},
		{"3", "Add employee", c.addEmployee},
		{"4", "Edit employee", c.editEmployee},
		{"5", "Delete employee", c.deleteEmployee},
		{"6", "Active employees", c.activeEmployees},
		{"7", "Inactive employees", c.inactiveEmployees},
		{"8", "Activate employee", c.activateEmployee},
		{"9", "Deactivate employee", c.deactivateEmployee},
	}, "Back")
}

func (c *Console) listEmployees(ctx context.Context) error {
	all, err := c.employees.ListEmployees(ctx)
	if err != nil {
		return err
	}
	c.showEmployees(all)
	return nil
}

func (c *Console) searchEmployees(ctx context.Context) error {
	term, err := c.ask("Search term")
	if err != nil {
		return err
	}
	found, err := c.employees.SearchEmployees(ctx, term)
	if err != nil {
		return err
	}
	c.showEmployees(found)
	return nil
}

func (c *Console) addEmployee(ctx context.Context) error {
	var in dto.CreateEmployeeInput
	var err error
	if in.FirstName, err = c.ask("First name"); err != nil {
		return err
	}
	if in.LastName, err = c.ask("Last name"); err != nil {
		return err
	}
	if in.Email, err = c.ask("Email"); err != nil {
		return err
	}
	if in.Phone, err = c.ask("Phone (optional)"); err != nil {
		return err
	}
	if in.HireDate, err = c.askDate("Hire date", time.Now().Format(dateLayout)); err != nil {
		return err
	}
	if in.HourlyRate, err = c.askDecimal("Hourly rate", ""); err != nil {
		return err
	}
	active, err := c.askBool("Active", true)
	if err != nil {
		return err
	}
	in.IsActive = &active

	created, err := c.employees.CreateEmployee(ctx, &in)
	if err != nil {
		return err
	}
	c.printf("Created employee %s\n", created.ID)
	return nil
}

func (c *Console) editEmployee(ctx context.Context) error {
	id, err := c.ask("Employee id")
	if err != nil {
		return err
	}
	e, err := c.employees.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		c.printf("No employee with id %q\n", id)
		return nil
	}

	if e.FirstName, err = c.askDefault("First name", e.FirstName); err != nil {
		return err
	}
	if e.LastName, err = c.askDefault("Last name", e.LastName); err != nil {
		return err
	}
	if e.Email, err = c.askDefault("Email", e.Email); err != nil {
		return err
	}
	phone, err := c.askDefault("Phone (- to clear)", deref(e.Phone))
	if err != nil {
		return err
	}
	e.Phone = clearable(phone)
	if e.HireDate, err = c.askDate("Hire date", e.HireDate.Format(dateLayout)); err != nil {
		return err
	}
	if e.HourlyRate, err = c.askDecimal("Hourly rate", e.HourlyRate.StringFixed(2)); err != nil {
		return err
	}

	if _, err := c.employees.UpdateEmployee(ctx, e); err != nil {
		return err
	}
	c.printf("Updated employee %s\n", e.ID)
	return nil
}

func (c *Console) deleteEmployee(ctx context.Context) error {
	id, err := c.ask("Employee id")
	if err != nil {
		return err
	}
	if err := c.employees.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	c.printf("Deleted\n")
	return nil
}

func (c *Console) activeEmployees(ctx context.Context) error {
	list, err := c.employees.GetActiveEmployees(ctx)
	if err != nil {
		return err
	}
	c.showEmployees(list)
	return nil
}

func (c *Console) inactiveEmployees(ctx context.Context) error {
	list, err := c.employees.GetInactiveEmployees(ctx)
	if err != nil {
		return err
	}
	c.showEmployees(list)
	return nil
}

func (c *Console) activateEmployee(ctx context.Context) error {
	id, err := c.ask("Employee id")
	if err != nil {
		return err
	}
	if err := c.employees.ActivateEmployee(ctx, id); err != nil {
		return err
	}
	c.printf("Employee %s is active\n", id)
	return nil
}

func (c *Console) deactivateEmployee(ctx context.Context) error {
	id, err := c.ask("Employee id")
	if err != nil {
		return err
	}
	if err := c.employees.DeactivateEmployee(ctx, id); err != nil {
		return err
	}
	c.printf("Employee %s is inactive\n", id)
	return nil
}

func (c *Console) showEmployees(list []*model.Employee) {
	rows := make([][]string, 0, len(list))
	for _, e := range list {
		rows = append(rows, []string{
			e.ID,
			e.FullName(),
			e.Email,
			e.HireDate.Format(dateLayout),
			e.HourlyRate.StringFixed(2),
			strconv.FormatBool(e.IsActive),
		})
	}
	c.table("ID\tNAME\tEMAIL\tHIRED\tRATE\tACTIVE", rows)
}

// askDate accepts a plain date or any layout cast understands.
func (c *Console) askDate(label, current string) (time.Time, error) {
	raw, err := c.askCurrent(label, current)
	if err != nil {
		return time.Time{}, err
	}
	if t, err := time.ParseInLocation(dateLayout, raw, time.Local); err == nil {
		return t, nil
	}
	t, err := cast.ToTimeE(raw)
	if err != nil {
		return time.Time{}, apperror.Validation(label, "%q is not a date (use %s)", raw, dateLayout)
	}
	return t, nil
}

func (c *Console) askBool(label string, current bool) (bool, error) {
	raw, err := c.askDefault(label+" (true/false)", strconv.FormatBool(current))
	if err != nil {
		return false, err
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return false, apperror.Validation(label, "%q is not true or false", raw)
	}
	return b, nil
}
