package flux

import "strings"

// Function describes one exported callable of the builtin environment:
// required argument names in declaration order, optional names unordered.
type Function struct {
	Name     string
	Package  string
	Required []string
	Optional []string
}

// Package is a named group of exported functions and constants.
type Package struct {
	Name      string
	Path      string
	Functions []Function
	Constants []string
}

func fn(pkg, name string, required []string, optional ...string) Function {
	return Function{Name: name, Package: pkg, Required: required, Optional: optional}
}

// universe holds the builtins available without an import.
var universe = []Function{
	fn("universe", "from", nil, "bucket", "bucketID", "org", "orgID", "host", "token"),
	fn("universe", "range", []string{"start"}, "stop"),
	fn("universe", "filter", []string{"fn"}, "onEmpty"),
	fn("universe", "map", []string{"fn"}, "mergeKey"),
	fn("universe", "group", nil, "columns", "mode"),
	fn("universe", "mean", nil, "column"),
	fn("universe", "sum", nil, "column"),
	fn("universe", "count", nil, "column"),
	fn("universe", "min", nil, "column"),
	fn("universe", "max", nil, "column"),
	fn("universe", "keys", nil, "column"),
	fn("universe", "sort", nil, "columns", "desc"),
	fn("universe", "limit", []string{"n"}, "offset"),
	fn("universe", "drop", nil, "columns", "fn"),
	fn("universe", "keep", nil, "columns", "fn"),
	fn("universe", "rename", nil, "columns", "fn"),
	fn("universe", "pivot", []string{"rowKey", "columnKey", "valueColumn"}),
	fn("universe", "join", []string{"tables", "on"}, "method"),
	fn("universe", "union", []string{"tables"}),
	fn("universe", "window", nil, "every", "period", "offset", "createEmpty"),
	fn("universe", "aggregateWindow", []string{"every", "fn"}, "column", "createEmpty", "timeSrc"),
	fn("universe", "derivative", nil, "unit", "nonNegative", "columns"),
	fn("universe", "duplicate", []string{"column", "as"}),
	fn("universe", "set", []string{"key", "value"}),
	fn("universe", "yield", nil, "name"),
	fn("universe", "to", []string{"bucket"}, "org", "host", "token"),
	fn("universe", "buckets", nil),
	fn("universe", "truncateTimeColumn", []string{"unit"}),
}

// packages is the importable environment, keyed by import path.
var packages = map[string]*Package{
	"csv": {
		Name: "csv",
		Functions: []Function{
			fn("csv", "from", nil, "csv", "file", "mode"),
		},
	},
	"strings": {
		Name: "strings",
		Functions: []Function{
			fn("strings", "toUpper", []string{"v"}),
			fn("strings", "toLower", []string{"v"}),
			fn("strings", "trim", []string{"v", "cutset"}),
			fn("strings", "trimPrefix", []string{"v", "prefix"}),
			fn("strings", "split", []string{"v", "t"}),
			fn("strings", "replaceAll", []string{"v", "t", "u"}),
			fn("strings", "strlen", []string{"v"}),
			fn("strings", "substring", []string{"v", "start", "end"}),
		},
	},
	"math": {
		Name: "math",
		Functions: []Function{
			fn("math", "abs", []string{"x"}),
			fn("math", "ceil", []string{"x"}),
			fn("math", "floor", []string{"x"}),
			fn("math", "round", []string{"x"}),
			fn("math", "pow", []string{"x", "y"}),
			fn("math", "sqrt", []string{"x"}),
			fn("math", "log", []string{"x"}),
		},
		Constants: []string{"pi", "e", "maxfloat"},
	},
	"date": {
		Name: "date",
		Functions: []Function{
			fn("date", "hour", []string{"t"}),
			fn("date", "minute", []string{"t"}),
			fn("date", "second", []string{"t"}),
			fn("date", "month", []string{"t"}),
			fn("date", "year", []string{"t"}),
			fn("date", "truncate", []string{"t", "unit"}),
		},
	},
	"json": {
		Name: "json",
		Functions: []Function{
			fn("json", "encode", []string{"v"}),
		},
	},
	"regexp": {
		Name: "regexp",
		Functions: []Function{
			fn("regexp", "compile", []string{"v"}),
			fn("regexp", "matchRegexpString", []string{"r", "v"}),
		},
	},
	"sql": {
		Name: "sql",
		Functions: []Function{
			fn("sql", "from", []string{"driverName", "dataSourceName", "query"}),
			fn("sql", "to", []string{"driverName", "dataSourceName", "table"}, "batchSize"),
		},
	},
	"experimental": {
		Name: "experimental",
		Functions: []Function{
			fn("experimental", "addDuration", []string{"d", "to"}),
			fn("experimental", "subDuration", []string{"d", "from"}),
			fn("experimental", "objectKeys", []string{"o"}),
			fn("experimental", "set", []string{"o"}),
			fn("experimental", "to", nil, "bucket", "org"),
		},
	},
	"experimental/geo": {
		Name: "geo",
		Functions: []Function{
			fn("geo", "filterRows", []string{"region"}, "minSize", "maxSize", "level", "strict"),
			fn("geo", "gridFilter", []string{"region"}, "minSize", "maxSize", "level"),
			fn("geo", "toRows", nil, "correlationKey"),
		},
	},
	"experimental/query": {
		Name: "query",
		Functions: []Function{
			fn("query", "fromRange", []string{"bucket", "start"}, "stop"),
			fn("query", "filterFields", nil, "fields"),
			fn("query", "filterMeasurement", []string{"measurement"}),
			fn("query", "inBucket", []string{"bucket", "measurement"}, "start", "stop", "fields", "predicate"),
		},
	},
}

func init() {
	for path, pkg := range packages {
		pkg.Path = path
	}
}

// Universe returns the builtin functions available without an import.
func Universe() []Function {
	return universe
}

// LookupPackage resolves an import path to its package, if known.
func LookupPackage(path string) (*Package, bool) {
	pkg, ok := packages[path]
	return pkg, ok
}

// PackageName returns the namespace an import path binds when unaliased,
// i.e. the last path segment.
func PackageName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
