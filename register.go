package filestore

import (
	"go.k6.io/k6/js/modules"

	"github.com/oshokin/xk6-filestore/filestore"
)

// init registers the filestore module with the k6 runtime.
func init() {
	modules.Register("k6/x/filestore", filestore.New())
}
