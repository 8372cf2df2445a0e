package validatron_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsat/validatron"
)

// The deployment model below exercises every traversal kind in one value
// graph: scalars, optionals, sequences, mappings, nested structures, and a
// sum-typed field.

type healthcheck struct {
	Path    string
	Timeout int
}

var healthcheckSchema = validatron.New[healthcheck]().
	Field("Path", validatron.NewRule("min_len", 1)).
	Field("Timeout", validatron.NewRule("min", 1), validatron.NewRule("max", 300)).
	MustBuild()

func (h healthcheck) Validate() error { return healthcheckSchema.Validate(h) }

type rollingUpdate struct {
	MaxUnavailable int
}

var rollingUpdateSchema = validatron.New[rollingUpdate]().
	Field("MaxUnavailable", validatron.NewRule("min", 0)).
	MustBuild()

func (r rollingUpdate) Validate() error { return rollingUpdateSchema.Validate(r) }

type recreate struct{}

type strategy interface {
	isStrategy()
}

func (rollingUpdate) isStrategy() {}
func (recreate) isStrategy()      {}

type deployment struct {
	ID       string
	Replicas int
	Weight   *float64
	Ports    []int
	Checks   []healthcheck
	Labels   map[string]string
	Strategy strategy
}

var deploymentSchema = validatron.New[deployment]().
	Field("ID", validatron.NewRule("uuid", nil)).
	Field("Replicas", validatron.NewRule("min", 1), validatron.NewRule("max", 64)).
	Field("Weight", validatron.NewRule("option_min", 0.0), validatron.NewRule("option_max", 1.0)).
	Field("Ports", validatron.NewRule("max_len", 4)).
	Each("Ports", validatron.NewRule("min", 1), validatron.NewRule("max", 65535)).
	Nested("Checks").
	Each("Labels", validatron.NewRule("max_len", 63)).
	Enum("Strategy",
		validatron.NewVariant[rollingUpdate]("RollingUpdate"),
		validatron.NewVariant[recreate]("Recreate"),
	).
	MustBuild()

func (d deployment) Validate() error { return deploymentSchema.Validate(d) }

func goodDeployment() deployment {
	w := 0.5
	return deployment{
		ID:       uuid.NewString(),
		Replicas: 3,
		Weight:   &w,
		Ports:    []int{80, 443},
		Checks: []healthcheck{
			{Path: "/healthz", Timeout: 5},
		},
		Labels:   map[string]string{"team": "platform"},
		Strategy: rollingUpdate{MaxUnavailable: 1},
	}
}

func TestValidation_SuccessRoundTrip(t *testing.T) {
	assert.NoError(t, goodDeployment().Validate())
}

func TestValidation_Completeness(t *testing.T) {
	// Five independent violations across unrelated fields must produce
	// exactly five errors.
	w := 2.0
	d := goodDeployment()
	d.ID = "nope"
	d.Replicas = 0
	d.Weight = &w
	d.Ports = []int{80, 0}
	d.Checks = []healthcheck{{Path: "", Timeout: 5}}

	errs := validatron.Extract(d.Validate())
	require.Len(t, errs, 5)

	assert.Equal(t, []string{
		"ID",
		"Replicas",
		"Weight",
		"Ports[1]",
		"Checks[0].Path",
	}, errs.Paths())
}

func TestValidation_Determinism(t *testing.T) {
	d := goodDeployment()
	d.Replicas = 0
	d.Ports = []int{0, 80, 70000}
	d.Labels = map[string]string{
		"b": "x",
		"a": string(make([]byte, 64)),
		"c": "y",
	}

	first := validatron.Extract(d.Validate())
	require.NotEmpty(t, first)
	for range 25 {
		assert.Equal(t, first, validatron.Extract(d.Validate()))
	}
}

func TestValidation_EnumDiscrimination(t *testing.T) {
	t.Run("only the active variant is validated", func(t *testing.T) {
		d := goodDeployment()
		d.Strategy = rollingUpdate{MaxUnavailable: -1}

		errs := validatron.Extract(d.Validate())
		require.Len(t, errs, 1)
		assert.Equal(t, "Strategy(RollingUpdate).MaxUnavailable", errs[0].Path.String())
	})

	t.Run("switching variants switches the evaluated constraints", func(t *testing.T) {
		d := goodDeployment()
		d.Strategy = recreate{}
		assert.NoError(t, d.Validate())
	})
}

func TestValidation_DeepPaths(t *testing.T) {
	d := goodDeployment()
	d.Checks = []healthcheck{
		{Path: "/a", Timeout: 5},
		{Path: "/b", Timeout: 9000},
	}

	errs := validatron.Extract(d.Validate())
	require.Len(t, errs, 1)
	assert.Equal(t, validatron.Path{
		validatron.Field("Checks"),
		validatron.Index(1),
		validatron.Field("Timeout"),
	}, errs[0].Path)
}

func TestValidation_ReportSerialization(t *testing.T) {
	d := goodDeployment()
	d.Replicas = 0

	errs := validatron.Extract(d.Validate())
	require.Len(t, errs, 1)

	raw, err := json.Marshal(errs)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"path":[{"field":"Replicas"}],"kind":"min","detail":"0 is less than 1"}]`,
		string(raw))
}

func TestValidation_ErrorClassesAreDisjoint(t *testing.T) {
	t.Run("construction errors are not validation errors", func(t *testing.T) {
		_, err := validatron.New[deployment]().
			Field("Replicas", validatron.NewRule("min", "one")).
			Build()
		require.Error(t, err)
		assert.False(t, validatron.IsValidationError(err))
	})

	t.Run("validation failures are never construction errors", func(t *testing.T) {
		d := goodDeployment()
		d.Replicas = 0
		err := d.Validate()
		require.Error(t, err)
		assert.True(t, validatron.IsValidationError(err))
		assert.NotErrorIs(t, err, validatron.ErrBadParameter)
	})
}
