package core

// WildfireModel returns the built-in wildfire response design model:
// air, ground, and supply catalogues composed under additive cost,
// additive area coverage, max response time, and the logistics
// capacity constraint (supply must cover air's retardant demand).
func WildfireModel() *DesignModel {
	return &DesignModel{
		Name: "wildfire",
		Quantities: []QuantitySpec{
			{Name: "area_ha", Direction: Maximize},
			{Name: "cost_usd", Direction: Minimize},
			{Name: "logistics_kg", Direction: Minimize},
			{Name: "response_min", Direction: Minimize},
		},
		Roles: []RoleSpec{
			{Name: RoleAir, Provides: []string{"area_ha"}, Requires: []string{"cost_usd", "logistics_kg", "response_min"}},
			{Name: RoleGround, Provides: []string{"area_ha"}, Requires: []string{"cost_usd", "response_min"}},
			{Name: RoleSupply, Provides: []string{"logistics_kg"}, Requires: []string{"cost_usd"}},
		},
		Aggregates: []AggregateSpec{
			{
				Name: "total_cost",
				Op:   OpSum,
				Inputs: []ValueRef{
					{Role: RoleAir, Side: SideRequires, Quantity: "cost_usd"},
					{Role: RoleGround, Side: SideRequires, Quantity: "cost_usd"},
					{Role: RoleSupply, Side: SideRequires, Quantity: "cost_usd"},
				},
				Into: SideRequires,
			},
			{
				Name: "area_controlled",
				Op:   OpSum,
				Inputs: []ValueRef{
					{Role: RoleAir, Side: SideProvides, Quantity: "area_ha"},
					{Role: RoleGround, Side: SideProvides, Quantity: "area_ha"},
				},
				Into: SideProvides,
			},
			{
				Name: "response_time",
				Op:   OpMax,
				Inputs: []ValueRef{
					{Role: RoleAir, Side: SideRequires, Quantity: "response_min"},
					{Role: RoleGround, Side: SideRequires, Quantity: "response_min"},
				},
				Into: SideRequires,
			},
			{
				Name: "logistics_load",
				Op:   OpSum,
				Inputs: []ValueRef{
					{Role: RoleAir, Side: SideRequires, Quantity: "logistics_kg"},
				},
				Into: SideRequires,
			},
		},
		Constraints: []ConstraintSpec{
			{
				Name:     "logistics",
				Capacity: ValueRef{Role: RoleSupply, Side: SideProvides, Quantity: "logistics_kg"},
				Demand:   ValueRef{Role: RoleAir, Side: SideRequires, Quantity: "logistics_kg"},
			},
		},
		Objectives: []string{"total_cost", "logistics_load", "response_time"},
	}
}
