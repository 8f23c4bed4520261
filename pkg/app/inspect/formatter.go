package inspect

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// FormatInfo formats an InfoResponse according to format.
func FormatInfo(resp *InfoResponse, format string) error {
	switch format {
	case "json":
		return encodeJSON(resp)
	case "yaml":
		return encodeYAML(resp)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintf(w, "Path:\t%s\n", resp.Path)
		fmt.Fprintf(w, "Variant:\t%s\n", variantName(resp.Unicode))
		fmt.Fprintf(w, "File size:\t%d bytes\n", resp.FileSize)
		fmt.Fprintf(w, "Crypt method:\t%s\n", resp.CryptMethod)
		fmt.Fprintf(w, "Allocation map valid:\t%t\n", resp.AmapValid)
		fmt.Fprintf(w, "Allocation map free:\t%d bytes\n", resp.AmapFreeBytes)
		fmt.Fprintf(w, "Node b-tree root:\t0x%x\n", resp.NodeBTreeOffset)
		fmt.Fprintf(w, "Block b-tree root:\t0x%x\n", resp.BlockBTreeOffset)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatVerify formats a VerifyResponse according to format.
func FormatVerify(resp *VerifyResponse, format string) error {
	switch format {
	case "json":
		return encodeJSON(resp)
	case "yaml":
		return encodeYAML(resp)
	case "table":
		fmt.Printf("Node b-tree pages read: %d\n", resp.NodePagesRead)
		fmt.Printf("Block b-tree pages read: %d\n", resp.BlockPagesRead)
		if resp.Valid() {
			fmt.Println("Result: OK")
			return nil
		}
		fmt.Printf("Result: %d error(s)\n", len(resp.Errors))
		for _, e := range resp.Errors {
			fmt.Printf("  - %s\n", e)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatDumpBTree formats a DumpBTreeResponse according to format.
func FormatDumpBTree(resp *DumpBTreeResponse, format string) error {
	switch format {
	case "json":
		return encodeJSON(resp)
	case "yaml":
		return encodeYAML(resp)
	case "table":
		if len(resp.Entries) == 0 {
			fmt.Println("No entries found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintf(w, "KEY\tDATA REF\tSUB REF\n")
		for _, e := range resp.Entries {
			fmt.Fprintf(w, "0x%x\t0x%x\t0x%x\n", e.Key, e.DataRef, e.SubRef)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatCat writes a CatResponse's decoded bytes. json/yaml formats
// base64-encode the payload; table format writes the raw bytes to
// stdout, matching how a pipeline would consume `cat`'s output.
func FormatCat(resp *CatResponse, format string) error {
	switch format {
	case "json":
		return encodeJSON(struct {
			Path   string `json:"path"`
			NodeID uint32 `json:"node_id"`
			Data   string `json:"data"`
		}{Path: resp.Path, NodeID: resp.NodeID, Data: base64.StdEncoding.EncodeToString(resp.Data)})
	case "yaml":
		return encodeYAML(struct {
			Path   string `yaml:"path"`
			NodeID uint32 `yaml:"node_id"`
			Data   string `yaml:"data"`
		}{Path: resp.Path, NodeID: resp.NodeID, Data: base64.StdEncoding.EncodeToString(resp.Data)})
	case "table":
		_, err := os.Stdout.Write(resp.Data)
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatRebuild formats a RebuildResponse according to format.
func FormatRebuild(resp *RebuildResponse, format string) error {
	switch format {
	case "json":
		return encodeJSON(resp)
	case "yaml":
		return encodeYAML(resp)
	case "table":
		if resp.AlreadyValid {
			fmt.Println("Allocation map already valid; nothing to do.")
			return nil
		}
		fmt.Printf("Allocation map rebuilt. Free bytes: %d\n", resp.AmapFreeBytes)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func encodeJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func encodeYAML(v any) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(v)
}

func variantName(unicode bool) string {
	if unicode {
		return "Unicode (64-bit)"
	}
	return "ANSI (32-bit)"
}
