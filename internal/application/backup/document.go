package backup

// Document is the portable snapshot of the whole workshop. Its field
// names follow the legacy export format so old snapshot files import
// unchanged.
type Document struct {
	WorkshopInfo       WorkshopInfoDoc  `json:"workshopInfo"`
	NextServiceNumber  int              `json:"nextServiceNumber"`
	FinishedCountToday int              `json:"finishedCountToday"`
	LastResetDate      string           `json:"lastResetDate,omitempty"`
	Customers          []CustomerDoc    `json:"customers"`
	Services           []ServiceDoc     `json:"services"`
	ServiceHistory     []ServiceDoc     `json:"serviceHistory"`
	Transactions       []TransactionDoc `json:"transactions"`
	Inventory          []InventoryDoc   `json:"inventory"`
}

// WorkshopInfoDoc is the workshop identity block of a snapshot
type WorkshopInfoDoc struct {
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Address   string  `json:"address"`
	LogoURL   string  `json:"logoUrl"`
	LogoScale float64 `json:"logoScale"`
}

// CustomerDoc is one customer with its fleet
type CustomerDoc struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Document string       `json:"document"`
	Phone    string       `json:"phone"`
	Email    string       `json:"email"`
	Address  string       `json:"address"`
	Vehicles []VehicleDoc `json:"vehicles"`
}

// VehicleDoc is one vehicle of a customer
type VehicleDoc struct {
	ID       string `json:"id"`
	Model    string `json:"model"`
	Plate    string `json:"plate"`
	Color    string `json:"color"`
	Chassis  string `json:"chassis"`
	Km       string `json:"km"`
	Year     string `json:"year"`
	ImageURL string `json:"imageUrl"`
}

// BudgetItemDoc is one budget line of a service
type BudgetItemDoc struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// ServiceDoc is one service order, active or historical
type ServiceDoc struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	CustomerID     string          `json:"customerId"`
	CustomerName   string          `json:"customerName"`
	Vehicle        string          `json:"vehicle"`
	Plate          string          `json:"plate"`
	Description    string          `json:"description"`
	ExecutionNotes string          `json:"executionNotes"`
	Status         string          `json:"status"`
	BudgetItems    []BudgetItemDoc `json:"budgetItems"`
	Discount       float64         `json:"discount"`
	Mileage        string          `json:"mileage"`
	ImageURL       string          `json:"imageUrl"`
	IsoDate        string          `json:"isoDate"`
	FinishedDate   string          `json:"finishedDate,omitempty"`
}

// TransactionDoc is one cash-flow entry
type TransactionDoc struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Method   string  `json:"method"`
	Status   string  `json:"status,omitempty"`
	IsoDate  string  `json:"isoDate"`
}

// InventoryDoc is one stock item
type InventoryDoc struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Category    string  `json:"category"`
	CostPrice   float64 `json:"costPrice"`
	SalePrice   float64 `json:"salePrice"`
	Quantity    int     `json:"quantity"`
	MinQuantity int     `json:"minQuantity"`
	Location    string  `json:"location"`
	ImageURL    string  `json:"imageUrl"`
}
