package models

// Sample data loaded when a storage slot has never been written. Keeps a fresh
// install from opening on an empty board.

func SampleServices() []ServiceRecord {
	return []ServiceRecord{
		{
			ID:           "TKT-1001",
			Plate:        "ABC-123",
			CustomerName: "Carlos Mendoza",
			Phone:        "987654321",
			ServiceType:  ServicePremium,
			Price:        45,
			Status:       StatusInProcess,
			EntryTime:    "09:15 AM",
			CustomerID:   "C-1001",
		},
		{
			ID:           "TKT-1002",
			Plate:        "XYZ-789",
			CustomerName: "Ana Torres",
			Phone:        "912345678",
			ServiceType:  ServiceBasic,
			Price:        25,
			Status:       StatusReady,
			EntryTime:    "10:40 AM",
			CustomerID:   "C-1002",
		},
		{
			ID:           "TKT-1003",
			Plate:        "DEF-456",
			CustomerName: "Luis Ramirez",
			Phone:        "998877665",
			ServiceType:  ServiceFull,
			Price:        120,
			Status:       StatusWaiting,
			EntryTime:    "11:05 AM",
			Notes:        "Pet hair on rear seats",
			CustomerID:   "C-1003",
		},
	}
}

func SampleCustomers() []Customer {
	return []Customer{
		{ID: "C-1001", Name: "Carlos Mendoza", Phone: "987654321", Plate: "ABC-123", TotalVisits: 1, TotalSpent: 45},
		{ID: "C-1002", Name: "Ana Torres", Phone: "912345678", Plate: "XYZ-789", TotalVisits: 1, TotalSpent: 25},
		{ID: "C-1003", Name: "Luis Ramirez", Phone: "998877665", Plate: "DEF-456", TotalVisits: 1, TotalSpent: 120},
	}
}

func SampleConversations() []Conversation {
	return []Conversation{
		{
			ID:           "CONV-1",
			CustomerName: "Carlos Mendoza",
			Plate:        "ABC-123",
			Channel:      ChannelWhatsApp,
			LastMessage:  "Is my car ready yet?",
			UnreadCount:  1,
			Status:       "active",
			Messages: []Message{
				{ID: "M-1", Sender: SenderUser, Content: "Hi, I dropped off ABC-123 this morning.", Timestamp: "10:02 AM"},
				{ID: "M-2", Sender: SenderUser, Content: "Is my car ready yet?", Timestamp: "11:30 AM"},
			},
		},
		{
			ID:           "CONV-2",
			CustomerName: "Maria Lopez",
			Channel:      ChannelInstagram,
			LastMessage:  "How much is the full package?",
			UnreadCount:  1,
			Status:       "active",
			Messages: []Message{
				{ID: "M-3", Sender: SenderUser, Content: "How much is the full package?", Timestamp: "09:48 AM"},
			},
		},
	}
}
