package export

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/roach88/cakeledger/internal/model"
)

// Parquet rows keep money as decimal strings so no precision is lost, and
// images as presence flags since payloads do not belong in analytics
// files.

type OrderRecord struct {
	ID                string `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	CustomerName      string `parquet:"name=customer_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	CustomerPhone     string `parquet:"name=customer_phone, type=BYTE_ARRAY, convertedtype=UTF8"`
	CakeType          string `parquet:"name=cake_type, type=BYTE_ARRAY, convertedtype=UTF8"`
	Quantity          int32  `parquet:"name=quantity, type=INT32"`
	Price             string `parquet:"name=price, type=BYTE_ARRAY, convertedtype=UTF8"`
	AdditionalCharges string `parquet:"name=additional_charges, type=BYTE_ARRAY, convertedtype=UTF8"`
	DeliveryCharge    string `parquet:"name=delivery_charge, type=BYTE_ARRAY, convertedtype=UTF8"`
	GrandTotal        string `parquet:"name=grand_total, type=BYTE_ARRAY, convertedtype=UTF8"`
	HasCakeImage      bool   `parquet:"name=has_cake_image, type=BOOLEAN"`
	HasDeliveredImage bool   `parquet:"name=has_delivered_image, type=BOOLEAN"`
	HasDelivery       bool   `parquet:"name=has_delivery, type=BOOLEAN"`
	DeliveryAddress   string `parquet:"name=delivery_address, type=BYTE_ARRAY, convertedtype=UTF8"`
	DueDate           string `parquet:"name=due_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderDate         string `parquet:"name=order_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Status            string `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8"`
	IsEggless         bool   `parquet:"name=is_eggless, type=BOOLEAN"`
}

type CustomerRecord struct {
	ID             string `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name           string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Phone          string `parquet:"name=phone, type=BYTE_ARRAY, convertedtype=UTF8"`
	Email          string `parquet:"name=email, type=BYTE_ARRAY, convertedtype=UTF8"`
	FirstOrderDate string `parquet:"name=first_order_date, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type ExpenseRecord struct {
	ID          string `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Description string `parquet:"name=description, type=BYTE_ARRAY, convertedtype=UTF8"`
	Amount      string `parquet:"name=amount, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date        string `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category    string `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
}

func orderRecord(o model.Order) OrderRecord {
	status := o.Status
	if status == "" {
		status = model.StatusPending
	}
	return OrderRecord{
		ID:                o.ID,
		CustomerName:      o.CustomerName,
		CustomerPhone:     o.CustomerPhone,
		CakeType:          o.CakeType,
		Quantity:          int32(o.Quantity),
		Price:             o.Price.String(),
		AdditionalCharges: o.AdditionalCharges.String(),
		DeliveryCharge:    o.DeliveryCharge.String(),
		GrandTotal:        o.GrandTotal().String(),
		HasCakeImage:      o.CakeImage != "",
		HasDeliveredImage: o.DeliveredImage != "",
		HasDelivery:       o.HasDelivery,
		DeliveryAddress:   o.DeliveryAddress,
		DueDate:           o.DueDate.String(),
		OrderDate:         o.OrderDate.String(),
		Status:            string(status),
		IsEggless:         o.IsEggless,
	}
}

func customerRecord(c model.Customer) CustomerRecord {
	return CustomerRecord{
		ID:             c.ID,
		Name:           c.Name,
		Phone:          c.Phone,
		Email:          c.Email,
		FirstOrderDate: c.FirstOrderDate.String(),
	}
}

func expenseRecord(e model.Expense) ExpenseRecord {
	return ExpenseRecord{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount.String(),
		Date:        e.Date.String(),
		Category:    e.Category,
	}
}

// WriteParquetDir writes orders.parquet, customers.parquet and
// expenses.parquet into dir.
func WriteParquetDir(ctx context.Context, dir string, snap model.Collections, opts Options) ([]string, error) {
	files := []struct {
		name  string
		write func(path string) error
	}{
		{model.CollectionOrders, func(p string) error { return writeParquet(p, snap.Orders, orderRecord) }},
		{model.CollectionCustomers, func(p string) error { return writeParquet(p, snap.Customers, customerRecord) }},
		{model.CollectionExpenses, func(p string) error { return writeParquet(p, snap.Expenses, expenseRecord) }},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, parquetName(f.name))
		if err := f.write(path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
		opts.done(f.name)
	}
	return paths, nil
}

func parquetName(collection string) string {
	switch collection {
	case model.CollectionOrders:
		return "orders.parquet"
	case model.CollectionCustomers:
		return "customers.parquet"
	default:
		return "expenses.parquet"
	}
}

func writeParquet[T, R any](path string, items []T, toRecord func(T) R) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	pw, err := writer.NewParquetWriter(fw, new(R), 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("parquet writer %s: %w", path, err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, item := range items {
		if err := pw.Write(toRecord(item)); err != nil {
			fw.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("finish %s: %w", path, err)
	}
	return fw.Close()
}

// ReadParquet reads every record of a file written by WriteParquetDir.
// R is OrderRecord, CustomerRecord or ExpenseRecord.
func ReadParquet[R any](path string) ([]R, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(R), 4)
	if err != nil {
		return nil, fmt.Errorf("parquet reader %s: %w", path, err)
	}
	defer pr.ReadStop()

	rows := make([]R, int(pr.GetNumRows()))
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
