package display

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/iris/errors"
)

// OutputEnv selects the default output format when no --json flag is given
const OutputEnv = "IRIS_OUTPUT"

// ShouldOutputJSON determines if a command should output JSON based on flags
// and the IRIS_OUTPUT environment variable
func ShouldOutputJSON(cmd *cobra.Command) bool {
	// Handle nil command gracefully (e.g., when called without command context)
	if cmd == nil {
		return jsonFromEnv()
	}

	// An explicit --json (or --json=false) wins
	if flag := cmd.Flags().Lookup("json"); flag != nil && flag.Changed {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	// Check global --json flag
	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return jsonFromEnv()
}

func jsonFromEnv() bool {
	return os.Getenv(OutputEnv) == "json"
}

// OutputJSON marshals v with MarshalJSON and writes it followed by a newline
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write JSON")
	}
	return nil
}
