package console

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-kiosk-service/internal/customer/dto"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
)

func (c *Console) customerMenu(ctx context.Context) error {
	return c.menu(ctx, "Customers", []menuItem{
		{"1", "List customers", c.listCustomers},
		{"2", "Search customers", c.searchCustomers},
		{"3", "Add customer", c.addCustomer},
		{"4", "Edit customer", c.editCustomer},
		{"5", "Delete customer", c.deleteCustomer},
		{"6", "Find customer by email", c.findCustomerByEmail},
	}, "Back")
}

func (c *Console) listCustomers(ctx context.Context) error {
	all, err := c.customers.ListCustomers(ctx)
	if err != nil {
		return err
	}
	c.showCustomers(all)
	return nil
}

func (c *Console) searchCustomers(ctx context.Context) error {
	term, err := c.ask("Search term")
	if err != nil {
		return err
	}
	found, err := c.customers.SearchCustomers(ctx, term)
	if err != nil {
		return err
	}
	c.showCustomers(found)
	return nil
}

func (c *Console) addCustomer(ctx context.Context) error {
	var in dto.CreateCustomerInput
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
		{"Email", &in.Email},
		{"Phone (optional)", &in.Phone},
	} {
		v, err := c.ask(f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	created, err := c.customers.CreateCustomer(ctx, &in)
	if err != nil {
		return err
	}
	c.printf("Created customer %s\n", created.ID)
	return nil
}

func (c *Console) editCustomer(ctx context.Context) error {
	id, err := c.ask("Customer id")
	if err != nil {
		return err
	}
	cust, err := c.customers.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	if cust == nil {
		c.printf("No customer with id %q\n", id)
		return nil
	}

	if cust.FirstName, err = c.askDefault("First name", cust.FirstName); err != nil {
		return err
	}
	if cust.LastName, err = c.askDefault("Last name", cust.LastName); err != nil {
		return err
	}
	if cust.Email, err = c.askDefault("Email", cust.Email); err != nil {
		return err
	}
	phone, err := c.askDefault("Phone (- to clear)", deref(cust.Phone))
	if err != nil {
		return err
	}
	cust.Phone = clearable(phone)

	if _, err := c.customers.UpdateCustomer(ctx, cust); err != nil {
		return err
	}
	c.printf("Updated customer %s\n", cust.ID)
	return nil
}

func (c *Console) deleteCustomer(ctx context.Context) error {
	id, err := c.ask("Customer id")
	if err != nil {
		return err
	}
	if err := c.customers.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	c.printf("Deleted\n")
	return nil
}

func (c *Console) findCustomerByEmail(ctx context.Context) error {
	email, err := c.ask("Email")
	if err != nil {
		return err
	}
	cust, err := c.customers.GetCustomerByEmail(ctx, email)
	if err != nil {
		return err
	}
	if cust == nil {
		c.printf("No customer with email %q\n", email)
		return nil
	}
	c.showCustomers([]*model.Customer{cust})
	return nil
}

func (c *Console) showCustomers(list []*model.Customer) {
	rows := make([][]string, 0, len(list))
	for _, cust := range list {
		rows = append(rows, []string{cust.ID, cust.FullName(), cust.Email, orDash(cust.Phone)})
	}
	c.table("ID\tNAME\tEMAIL\tPHONE", rows)
}

// clearable maps "-" and blank to no value.
func clearable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	return &s
}
