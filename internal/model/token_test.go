package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestPackageCatalog(t *testing.T) {
    expected := map[string]struct {
        tokens int64
        bonus  int64
        cost   string
    }{
        "basic":      {100, 0, "9.99"},
        "standard":   {500, 50, "39.99"},
        "premium":    {1000, 150, "69.99"},
        "enterprise": {2500, 500, "149.99"},
    }
    for id, want := range expected {
        pkg, ok := PackageByID(id)
        require.True(t, ok, "package %s", id)
        assert.Equal(t, want.tokens, pkg.Tokens, "package %s", id)
        assert.Equal(t, want.bonus, pkg.Bonus, "package %s", id)
        assert.Equal(t, want.cost, pkg.Cost, "package %s", id)
    }
}

func TestPackageByIDUnknown(t *testing.T) {
    _, ok := PackageByID("mega")
    assert.False(t, ok)
    _, ok = PackageByID("")
    assert.False(t, ok)
}

func TestPackagesListsWholeCatalog(t *testing.T) {
    pkgs := Packages()
    require.Len(t, pkgs, 4)
    assert.Equal(t, "basic", pkgs[0].ID)
    assert.Equal(t, "enterprise", pkgs[3].ID)
}
