package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/shopfront/internal/client/models"
	"github.com/dmitrijs2005/shopfront/internal/client/services"
)

// Products prints the catalog as a table.
func (a *App) Products(ctx context.Context) error {
	items, err := a.catalog.Products(ctx)
	if err != nil {
		if errors.Is(err, services.ErrNoSession) {
			a.session = nil
			fmt.Fprintln(a.out, "Please login first")
		} else {
			a.printError(err)
		}
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No products")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tIMAGE")
	for _, p := range items {
		img := p.ImageURL
		if img == "" {
			img = p.Image
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\t%s\n", p.ID, p.Name, p.Price, p.Stock, img)
	}
	return tw.Flush()
}

// Buy orders one unit of productID for the logged-in user.
func (a *App) Buy(ctx context.Context, productID string) error {
	orderID, err := a.catalog.Buy(ctx, productID)
	if err != nil {
		if errors.Is(err, services.ErrNoSession) {
			fmt.Fprintln(a.out, "Please login first")
		} else {
			a.printError(err)
		}
		return err
	}

	fmt.Fprintf(a.out, "Order placed successfully! Order id: %s\n", orderID)
	return nil
}

// AddProduct prompts for the product fields and creates it.
func (a *App) AddProduct(ctx context.Context) error {
	var p models.Product
	var err error

	if p.Name, err = getSimpleText(a.reader, "Product name", a.out); err != nil {
		return err
	}

	priceText, err := getSimpleText(a.reader, "Price", a.out)
	if err != nil {
		return err
	}
	if p.Price, err = strconv.ParseFloat(priceText, 64); err != nil {
		err = fmt.Errorf("price %q is not a number", priceText)
		a.printError(err)
		return err
	}

	stockText, err := getSimpleText(a.reader, "Stock", a.out)
	if err != nil {
		return err
	}
	if p.Stock, err = strconv.Atoi(stockText); err != nil {
		err = fmt.Errorf("stock %q is not a whole number", stockText)
		a.printError(err)
		return err
	}

	if p.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}
	if p.Image, err = getSimpleText(a.reader, "Image URL (optional)", a.out); err != nil {
		return err
	}

	n, err := a.catalog.AddProduct(ctx, p)
	if err != nil {
		a.printError(err)
		return err
	}

	fmt.Fprintf(a.out, "Added %d product(s)\n", n)
	return nil
}

// Image uploads the file at path as the picture of productID.
func (a *App) Image(ctx context.Context, productID, path string) error {
	key, err := a.catalog.UploadImage(ctx, productID, path)
	if err != nil {
		a.printError(err)
		return err
	}

	fmt.Fprintf(a.out, "Image uploaded: %s\n", key)
	return nil
}
