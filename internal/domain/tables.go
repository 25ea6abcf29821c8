package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysAdmin{},
	&SysOprLog{},
	// Store
	&Product{},
	&Order{},
	&OrderItem{},
	&User{},
}
