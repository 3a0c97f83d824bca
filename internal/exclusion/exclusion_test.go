package exclusion

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/tracklist/internal/profile"
	"github.com/roach88/tracklist/internal/store/document"
	"github.com/roach88/tracklist/internal/store/keyvalue"
	"github.com/roach88/tracklist/internal/store/relational"
)

func TestPlanFor_Table(t *testing.T) {
	tests := []struct {
		profile profile.Profile
		want    []Family
	}{
		{profile.Redis, []Family{Relational, Document}},
		{profile.MongoDB, []Family{Relational, Cache}},
		{profile.Postgres, []Family{Document, Cache}},
		{profile.MySQL, []Family{Document, Cache}},
		{profile.Oracle, []Family{Document, Cache}},
		{profile.SQLServer, []Family{Document, Cache}},
		{profile.None, []Family{Document, Cache}},
		{profile.Profile("cassandra"), []Family{Document, Cache}},
	}
	for _, tt := range tests {
		t.Run(tt.profile.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, PlanFor(tt.profile).Families())
		})
	}
}

func TestPlanFor_Deterministic(t *testing.T) {
	for _, p := range append([]profile.Profile{profile.None}, profile.All...) {
		assert.Equal(t, PlanFor(p).Value(), PlanFor(p).Value())
		assert.Equal(t, PlanFor(p).Families(), PlanFor(p).Families())
	}
}

func TestPlan_ScenarioA(t *testing.T) {
	plan := PlanFor(profile.Redis)
	assert.True(t, plan.Excludes(Document))
	assert.True(t, plan.Excludes(Relational))
	assert.False(t, plan.Excludes(Cache))
}

func TestPlan_ScenarioD(t *testing.T) {
	plan := PlanFor(profile.None)
	assert.ElementsMatch(t, []Family{Document, Cache}, plan.Families())
	assert.False(t, plan.Excludes(Relational))
}

func TestPlan_FamiliesReturnsCopy(t *testing.T) {
	plan := PlanFor(profile.Redis)
	got := plan.Families()
	got[0] = Cache

	assert.Equal(t, Relational, plan.Families()[0])
}

func TestParseValue_RoundTripsFamilies(t *testing.T) {
	for _, p := range profile.All {
		plan := PlanFor(p)
		assert.ElementsMatch(t, plan.Families(), FamiliesExcluded(ParseValue(plan.Value())), p.String())
	}
}

func TestParseValue_IgnoresBlanks(t *testing.T) {
	set := ParseValue(" a, ,b,,")
	assert.Equal(t, map[string]bool{"a": true, "b": true}, set)
}

func TestFamiliesExcluded_PartialFamilyIsNotExcluded(t *testing.T) {
	set := ParseValue(DocumentClient + "," + KeyValueData + "," + KeyValueRepositories)
	assert.Equal(t, []Family{Cache}, FamiliesExcluded(set))
}

func TestFamilyFor(t *testing.T) {
	assert.Equal(t, Cache, FamilyFor(profile.Redis))
	assert.Equal(t, Document, FamilyFor(profile.MongoDB))
	assert.Equal(t, Relational, FamilyFor(profile.SQLServer))
	assert.Equal(t, Relational, FamilyFor(profile.None))
}

func TestPlanValue_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, p := range []profile.Profile{profile.Redis, profile.MongoDB, profile.None} {
		g.Assert(t, "plan_"+p.String(), []byte(PlanFor(p).Value()+"\n"))
	}
}

func TestComponents_PrefixedByAdapterPackage(t *testing.T) {
	adapters := map[Family]string{
		Relational: reflect.TypeOf(relational.Store{}).PkgPath(),
		Document:   reflect.TypeOf(document.Store{}).PkgPath(),
		Cache:      reflect.TypeOf(keyvalue.Store{}).PkgPath(),
	}
	for _, f := range AllFamilies {
		t.Run(string(f), func(t *testing.T) {
			components := f.Components()
			assert.NotEmpty(t, components)
			for _, c := range components {
				i := strings.LastIndex(c, ".")
				if assert.Greater(t, i, 0, c) {
					assert.Equal(t, adapters[f], c[:i], c)
					assert.NotEmpty(t, c[i+1:], c)
				}
			}
		})
	}
}
