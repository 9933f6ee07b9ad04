package implementation

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// generateSignatures enumerates one call signature per legal argument
// combination: the required arguments always present, plus every subset of
// the optional arguments. For k optional arguments that is 2^k entries (the
// required-only row and 2^k - 1 optional-combination rows). The language
// accepts any subset of optional keyword arguments, so signature help
// offers an entry matching whatever the user has typed so far.
func generateSignatures(info FunctionInfo) []protocol.SignatureInformation {
	count := 1 << uint(len(info.Optional))
	signatures := make([]protocol.SignatureInformation, 0, count)
	for mask := 0; mask < count; mask++ {
		args := make([]string, 0, len(info.Required)+len(info.Optional))
		args = append(args, info.Required...)
		for i, opt := range info.Optional {
			if mask&(1<<uint(i)) != 0 {
				args = append(args, opt)
			}
		}
		signatures = append(signatures, signatureInformation(info.Name, args))
	}
	return signatures
}

// signatureInformation formats one combination as a display label of the
// form `name(arg: $arg, ...)` with a parameter entry per argument.
func signatureInformation(name string, args []string) protocol.SignatureInformation {
	labels := make([]string, 0, len(args))
	parameters := make([]protocol.ParameterInformation, 0, len(args))
	for _, arg := range args {
		labels = append(labels, fmt.Sprintf("%s: $%s", arg, arg))
		parameters = append(parameters, protocol.ParameterInformation{Label: arg})
	}
	return protocol.SignatureInformation{
		Label:      fmt.Sprintf("%s(%s)", name, strings.Join(labels, ", ")),
		Parameters: parameters,
	}
}
