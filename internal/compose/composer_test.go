package compose

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firelinelabs/tradespace/pkg/core"
)

func impl(name string, provides, requires map[string]float64) *core.Implementation {
	return &core.Implementation{
		Name:     name,
		Provides: core.NewVector(provides),
		Requires: core.NewVector(requires),
	}
}

func heliA() *core.Implementation {
	return impl("heli-A",
		map[string]float64{"area_ha": 10},
		map[string]float64{"cost_usd": 500, "logistics_kg": 80, "response_min": 30})
}

func crew1() *core.Implementation {
	return impl("crew-1",
		map[string]float64{"area_ha": 5},
		map[string]float64{"cost_usd": 150, "response_min": 25})
}

func depot1() *core.Implementation {
	return impl("depot-1",
		map[string]float64{"logistics_kg": 100},
		map[string]float64{"cost_usd": 100})
}

func TestCompose(t *testing.T) {
	c := New(core.WildfireModel())

	design, err := c.Compose(core.Selection{
		core.RoleAir:    heliA(),
		core.RoleGround: crew1(),
		core.RoleSupply: depot1(),
	})
	require.NoError(t, err)

	cost, _ := design.Requires.Get("total_cost")
	assert.Equal(t, 750.0, cost, "total cost is the sum of the three costs")

	area, _ := design.Provides.Get("area_controlled")
	assert.Equal(t, 15.0, area, "area is additive over air and ground")

	response, _ := design.Requires.Get("response_time")
	assert.Equal(t, 30.0, response, "response time is the max of air and ground")

	load, _ := design.Requires.Get("logistics_load")
	assert.Equal(t, 80.0, load, "logistics load is air's retardant demand")

	names := design.Selection.Names()
	assert.Equal(t, "heli-A", names[core.RoleAir])
	assert.Equal(t, "crew-1", names[core.RoleGround])
	assert.Equal(t, "depot-1", names[core.RoleSupply])
}

func TestComposeInfeasible(t *testing.T) {
	c := New(core.WildfireModel())

	smallDepot := impl("depot-sm",
		map[string]float64{"logistics_kg": 50},
		map[string]float64{"cost_usd": 60})

	_, err := c.Compose(core.Selection{
		core.RoleAir:    heliA(),
		core.RoleGround: crew1(),
		core.RoleSupply: smallDepot,
	})
	require.Error(t, err)

	var infeasible *core.InfeasibleSelectionError
	require.True(t, errors.As(err, &infeasible))
	assert.Equal(t, "logistics", infeasible.Constraint)
	assert.Equal(t, 50.0, infeasible.Capacity)
	assert.Equal(t, 80.0, infeasible.Demand)
}

func TestComposeAtCapacityBoundary(t *testing.T) {
	c := New(core.WildfireModel())

	exactDepot := impl("depot-exact",
		map[string]float64{"logistics_kg": 80},
		map[string]float64{"cost_usd": 60})

	_, err := c.Compose(core.Selection{
		core.RoleAir:    heliA(),
		core.RoleGround: crew1(),
		core.RoleSupply: exactDepot,
	})
	assert.NoError(t, err, "capacity equal to demand is feasible")
}

func TestComposeIncomplete(t *testing.T) {
	c := New(core.WildfireModel())

	_, err := c.Compose(core.Selection{core.RoleAir: heliA()})
	require.Error(t, err)

	var incomplete *core.IncompleteSelectionError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{"ground", "supply"}, incomplete.Missing)
}

func TestComposeSelectionCopied(t *testing.T) {
	c := New(core.WildfireModel())

	sel := core.Selection{
		core.RoleAir:    heliA(),
		core.RoleGround: crew1(),
		core.RoleSupply: depot1(),
	}
	design, err := c.Compose(sel)
	require.NoError(t, err)

	delete(sel, core.RoleAir)
	assert.NotNil(t, design.Selection[core.RoleAir], "design must not share the caller's selection map")
}
