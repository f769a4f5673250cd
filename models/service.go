package models

// ServiceStatus is the position of a ticket in the wash workflow.
type ServiceStatus string

const (
	StatusWaiting   ServiceStatus = "WAITING"
	StatusInProcess ServiceStatus = "IN_PROCESS"
	StatusReady     ServiceStatus = "READY"
	StatusDelivered ServiceStatus = "DELIVERED"
	StatusDebt      ServiceStatus = "DEBT"
	StatusCancelled ServiceStatus = "CANCELLED"
)

var statusLabels = map[ServiceStatus]string{
	StatusWaiting:   "Waiting",
	StatusInProcess: "In process",
	StatusReady:     "Ready",
	StatusDelivered: "Delivered",
	StatusDebt:      "Owes",
	StatusCancelled: "Cancelled",
}

func (s ServiceStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s ServiceStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ServiceType is one of the packages offered at the counter.
type ServiceType string

const (
	ServiceBasic   ServiceType = "BASIC"
	ServicePremium ServiceType = "PREMIUM"
	ServiceWax     ServiceType = "WAX"
	ServiceDetail  ServiceType = "DETAIL"
	ServiceFull    ServiceType = "FULL"
)

type serviceTypeInfo struct {
	name      string
	listPrice float64
}

var serviceTypes = map[ServiceType]serviceTypeInfo{
	ServiceBasic:   {"Basic Wash", 25},
	ServicePremium: {"Premium Wash", 45},
	ServiceWax:     {"Waxing", 60},
	ServiceDetail:  {"Interior Detailing", 80},
	ServiceFull:    {"Full Package", 120},
}

// ServiceTypes lists the offered packages in menu order.
func ServiceTypes() []ServiceType {
	return []ServiceType{ServiceBasic, ServicePremium, ServiceWax, ServiceDetail, ServiceFull}
}

func (t ServiceType) Valid() bool {
	_, ok := serviceTypes[t]
	return ok
}

// DisplayName is the name printed on receipts and the dashboard.
func (t ServiceType) DisplayName() string {
	if info, ok := serviceTypes[t]; ok {
		return info.name
	}
	return string(t)
}

// ListPrice is the default price used when intake leaves the price empty.
func (t ServiceType) ListPrice() float64 {
	return serviceTypes[t].listPrice
}

// ServiceRecord is one vehicle's visit (a ticket).
type ServiceRecord struct {
	ID           string        `json:"id"`
	Plate        string        `json:"plate"`
	CustomerName string        `json:"customerName"`
	Phone        string        `json:"phone"`
	ServiceType  ServiceType   `json:"serviceType"`
	Price        float64       `json:"price"`
	Status       ServiceStatus `json:"status"`
	EntryTime    string        `json:"entryTime"`
	ExitTime     string        `json:"exitTime,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	CustomerID   string        `json:"customerId,omitempty"`
}
