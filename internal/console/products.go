package console

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/product/dto"
)

func (c *Console) productMenu(ctx context.Context) error {
	return c.menu(ctx, "Products", []menuItem{
		{"1", "List products", c.listProducts},
		{"2", "Search products", c.searchProducts},
		{"3", "Add product", c.addProduct},
		{"4", "Edit product", c.editProduct},
		{"5", "Delete product", c.deleteProduct},
		{"6", "Low stock report", c.lowStock},
		{"7", "Products by price range", c.priceRange},
		{"8", "Update stock", c.updateStock},
		{"9", "Find product by SKU", c.findProductBySKU},
	}, "Back")
}

func (c *Console) listProducts(ctx context.Context) error {
	all, err := c.products.ListProducts(ctx)
	if err != nil {
		return err
	}
	c.showProducts(all)
	return nil
}

func (c *Console) searchProducts(ctx context.Context) error {
	term, err := c.ask("Search term")
	if err != nil {
		return err
	}
	found, err := c.products.SearchProducts(ctx, term)
	if err != nil {
		return err
	}
	c.showProducts(found)
	return nil
}

func (c *Console) addProduct(ctx context.Context) error {
	var in dto.CreateProductInput
	var err error
	if in.Name, err = c.ask("Name"); err != nil {
		return err
	}
	if in.Description, err = c.ask("Description (optional)"); err != nil {
		return err
	}
	if in.Price, err = c.askDecimal("Price", ""); err != nil {
		return err
	}
	if in.StockQuantity, err = c.askInt("Stock quantity", ""); err != nil {
		return err
	}
	if in.SKU, err = c.ask("SKU (optional)"); err != nil {
		return err
	}
	created, err := c.products.CreateProduct(ctx, &in)
	if err != nil {
		return err
	}
	c.printf("Created product %s\n", created.ID)
	return nil
}

func (c *Console) editProduct(ctx context.Context) error {
	id, err := c.ask("Product id")
	if err != nil {
		return err
	}
	p, err := c.products.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		c.printf("No product with id %q\n", id)
		return nil
	}

	if p.Name, err = c.askDefault("Name", p.Name); err != nil {
		return err
	}
	desc, err := c.askDefault("Description (- to clear)", deref(p.Description))
	if err != nil {
		return err
	}
	p.Description = clearable(desc)
	if p.Price, err = c.askDecimal("Price", p.Price.StringFixed(2)); err != nil {
		return err
	}
	if p.StockQuantity, err = c.askInt("Stock quantity", strconv.Itoa(p.StockQuantity)); err != nil {
		return err
	}
	sku, err := c.askDefault("SKU (- to clear)", deref(p.SKU))
	if err != nil {
		return err
	}
	p.SKU = clearable(sku)

	if _, err := c.products.UpdateProduct(ctx, p); err != nil {
		return err
	}
	c.printf("Updated product %s\n", p.ID)
	return nil
}

func (c *Console) deleteProduct(ctx context.Context) error {
	id, err := c.ask("Product id")
	if err != nil {
		return err
	}
	if err := c.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	c.printf("Deleted\n")
	return nil
}

func (c *Console) lowStock(ctx context.Context) error {
	threshold, err := c.askInt("Threshold", "10")
	if err != nil {
		return err
	}
	low, err := c.products.GetLowStockProducts(ctx, threshold)
	if err != nil {
		return err
	}
	c.showProducts(low)
	return nil
}

func (c *Console) priceRange(ctx context.Context) error {
	low, err := c.askDecimal("Minimum price", "0")
	if err != nil {
		return err
	}
	high, err := c.askDecimal("Maximum price", "")
	if err != nil {
		return err
	}
	found, err := c.products.GetProductsByPriceRange(ctx, low, high)
	if err != nil {
		return err
	}
	c.showProducts(found)
	return nil
}

func (c *Console) updateStock(ctx context.Context) error {
	id, err := c.ask("Product id")
	if err != nil {
		return err
	}
	qty, err := c.askInt("New quantity", "")
	if err != nil {
		return err
	}
	p, err := c.products.UpdateStock(ctx, id, qty)
	if err != nil {
		return err
	}
	c.printf("%s now has %d in stock\n", p.Name, p.StockQuantity)
	return nil
}

func (c *Console) findProductBySKU(ctx context.Context) error {
	sku, err := c.ask("SKU")
	if err != nil {
		return err
	}
	p, err := c.products.GetProductBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if p == nil {
		c.printf("No product with SKU %q\n", sku)
		return nil
	}
	c.showProducts([]*model.Product{p})
	return nil
}

func (c *Console) showProducts(list []*model.Product) {
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{p.ID, p.Name, orDash(p.SKU), p.Price.StringFixed(2), strconv.Itoa(p.StockQuantity)})
	}
	c.table("ID\tNAME\tSKU\tPRICE\tSTOCK", rows)
}

// askInt reports malformed input as a validation error naming label.
func (c *Console) askInt(label, current string) (int, error) {
	raw, err := c.askCurrent(label, current)
	if err != nil {
		return 0, err
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, apperror.Validation(label, "%q is not a whole number", raw)
	}
	return n, nil
}

func (c *Console) askDecimal(label, current string) (decimal.Decimal, error) {
	raw, err := c.askCurrent(label, current)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.Validation(label, "%q is not a number", raw)
	}
	return d, nil
}

func (c *Console) askCurrent(label, current string) (string, error) {
	if current == "" {
		return c.ask(label)
	}
	return c.askDefault(label, current)
}
