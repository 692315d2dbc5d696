package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pathassist/lab-billing/internal/domain/entity"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func line(desc string, price int64) entity.InvoiceItem {
	p := decimal.NewFromInt(price)
	return entity.InvoiceItem{Description: desc, Quantity: decimal.NewFromInt(1), UnitPrice: p, Total: p}
}

// SeedServices catálogo inicial de pruebas de laboratorio, en orden de presentación.
func SeedServices() []*entity.LabService {
	created := day("2024-01-01")
	return []*entity.LabService{
		{ID: "cbc", Name: "Complete Blood Count (CBC)", CreatedAt: created},
		{ID: "lipid", Name: "Lipid Profile", CreatedAt: created},
		{ID: "thyroid", Name: "Thyroid Function Test (TFT)", CreatedAt: created},
		{ID: "glucose", Name: "Glucose Test (Fasting/Random)", CreatedAt: created},
		{ID: "vitamin_d", Name: "Vitamin D Test", CreatedAt: created},
		{ID: "allergy_panel", Name: "Allergy Panel - Basic", CreatedAt: created},
		{ID: "liver_function", Name: "Liver Function Test (LFT)", CreatedAt: created},
		{ID: "renal_function", Name: "Renal Function Test (RFT)", CreatedAt: created},
	}
}

// SeedPatients pacientes de ejemplo.
func SeedPatients() []*entity.Patient {
	created := day("2024-01-01")
	return []*entity.Patient{
		{ID: "patient1", Name: "John Doe", Email: "john.doe@example.com", Phone: "555-0101",
			DateOfBirth: dayPtr("1985-06-15"), Gender: "Male", Address: "123 Health St, Wellness City, CA 90210",
			CreatedAt: created, UpdatedAt: created},
		{ID: "patient2", Name: "Jane Smith", Email: "jane.smith@example.com", Phone: "555-0102",
			DateOfBirth: dayPtr("1992-11-20"), Gender: "Female", Address: "456 Vitality Ave, Medville, TX 75001",
			CreatedAt: created, UpdatedAt: created},
		{ID: "patient3", Name: "Michael Brown", Email: "michael.brown@example.com", Phone: "555-0103",
			DateOfBirth: dayPtr("1978-03-01"), Gender: "Male", Address: "789 Recovery Rd, Clinic Town, FL 33101",
			CreatedAt: created, UpdatedAt: created},
		{ID: "patient4", Name: "Emily Jones", Email: "emily.jones@example.com", Phone: "555-0104",
			DateOfBirth: dayPtr("2001-07-22"), Gender: "Female", Address: "101 Test Drive, LabCity, NY 10001",
			CreatedAt: created, UpdatedAt: created},
	}
}

// SeedInvoices facturas de ejemplo; el impuesto guardado corresponde a CGST 9% + SGST 9%.
func SeedInvoices() []*entity.Invoice {
	mk := func(id, patientID, patientName, appt, number, issue string, due *time.Time, status entity.PaymentStatus, tax int64, items ...entity.InvoiceItem) *entity.Invoice {
		amount := decimal.Zero
		for _, it := range items {
			amount = amount.Add(it.Total)
		}
		return &entity.Invoice{
			ID: id, PatientID: patientID, PatientName: patientName, AppointmentID: appt,
			InvoiceNumber: number, IssueDate: day(issue), DueDate: due, Items: items,
			Amount: amount, TaxAmount: decimal.NewFromInt(tax), Currency: entity.DefaultCurrency,
			Status: status, CreatedAt: day(issue), UpdatedAt: day(issue),
		}
	}
	return []*entity.Invoice{
		mk("inv1", "patient1", "John Doe", "appt1", "INV-2024-071", "2024-07-25", nil, entity.PaymentStatusPaid, 126,
			line("Complete Blood Count", 500), line("Syringe & Needle", 100), line("Lab Processing Fee", 100)),
		mk("inv2", "patient1", "John Doe", "appt2", "INV-2024-062", "2024-06-10", nil, entity.PaymentStatusPaid, 198,
			line("Lipid Profile", 1100)),
		mk("inv3", "patient2", "Jane Smith", "appt3", "INV-2024-073", "2024-07-20", dayPtr("2024-08-05"), entity.PaymentStatusPending, 144,
			line("Thyroid Function Test", 800)),
		mk("inv4", "patient3", "Michael Brown", "appt5", "INV-2024-078", "2024-07-28", nil, entity.PaymentStatusPaid, 63,
			line("Glucose Test (Fasting)", 350)),
		mk("inv5", "patient4", "Emily Jones", "appt7", "INV-2024-081", "2024-08-01", dayPtr("2024-08-15"), entity.PaymentStatusPending, 450,
			line("Allergy Panel - Basic", 2500)),
	}
}
