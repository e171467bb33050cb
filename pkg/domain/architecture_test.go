package domain

import (
	"testing"

	"biochemreg/testutil"
)

// The domain layer is shared by every store and the resolver; it must not
// depend on internal packages or third-party modules.
func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "domain must not import internal packages")
}

func TestDomainUsesStandardLibraryOnly(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.ThirdPartyImportForbidden, "domain must stay dependency-free")
}
