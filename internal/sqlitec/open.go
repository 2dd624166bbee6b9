package sqlitec

import (
	"os"
	"strings"

	"github.com/orsinium-labs/enum"
	lib "modernc.org/sqlite/lib"
)

// RowIDName is the name of the implicit row identifier column of every
// rowid table.
const RowIDName = "rowid"

// OpenDisposition decides what Open does with a target that does or does not
// exist. Dispositions are mutually exclusive.
type OpenDisposition enum.Member[string]

var (
	// DispositionCreateNew creates the database and fails if a database file
	// already exists at the target.
	DispositionCreateNew = OpenDisposition{Value: "create-new"}
	// DispositionOpenExisting fails if the database does not exist.
	DispositionOpenExisting = OpenDisposition{Value: "open-existing"}
	// DispositionOpenOrCreate opens the database, creating it when missing.
	DispositionOpenOrCreate = OpenDisposition{Value: "open-or-create"}

	// Dispositions lists every OpenDisposition.
	Dispositions = enum.New(
		DispositionCreateNew,
		DispositionOpenExisting,
		DispositionOpenOrCreate,
	)
)

// flags returns the native open flags of the disposition.
func (d OpenDisposition) flags() int32 {
	switch d {
	case DispositionCreateNew, DispositionOpenOrCreate:
		return lib.SQLITE_OPEN_CREATE
	default:
		return 0
	}
}

// OpenFlags are the independently combinable open modifiers. They are passed
// to the engine as they are, combined with the disposition.
//
// https://www.sqlite.org/c3ref/open.html
type OpenFlags int32

const (
	OpenReadOnly      OpenFlags = lib.SQLITE_OPEN_READONLY
	OpenReadWrite     OpenFlags = lib.SQLITE_OPEN_READWRITE
	OpenMultiThreaded OpenFlags = lib.SQLITE_OPEN_NOMUTEX
	OpenSerialized    OpenFlags = lib.SQLITE_OPEN_FULLMUTEX
	OpenURI           OpenFlags = lib.SQLITE_OPEN_URI
	OpenMemory        OpenFlags = lib.SQLITE_OPEN_MEMORY
	OpenSharedCache   OpenFlags = lib.SQLITE_OPEN_SHAREDCACHE
	OpenPrivateCache  OpenFlags = lib.SQLITE_OPEN_PRIVATECACHE
	OpenNoFollow      OpenFlags = lib.SQLITE_OPEN_NOFOLLOW
)

// targetExists reports whether target names a file that already exists on
// disk. In-memory, temporary and URI targets never do.
func targetExists(target string, flags OpenFlags) bool {
	if target == "" || target == ":memory:" || flags&OpenMemory != 0 {
		return false
	}
	if flags&OpenURI != 0 && strings.HasPrefix(target, "file:") {
		return false
	}

	_, err := os.Stat(target)
	return err == nil
}
