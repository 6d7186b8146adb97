// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/johnhkchen/hack-stack/pkg/registry"
)

var registryPath string

func main() {
	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	opCmd := flag.NewFlagSet("add-op", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{initCmd, addCmd, opCmd, updateCmd, listCmd, validateCmd} {
		fs.StringVar(&registryPath, "path", "configs/vendor-registry.json", "Path to registry file")
	}
	force := initCmd.Bool("force", false, "Overwrite an existing registry")

	// Add command flags
	idAdd := addCmd.String("id", "", "Vendor ID (e.g., openai)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., OpenAI)")
	vendorType := addCmd.String("type", "", "Vendor type (llm, vector_db, ...)")
	envVar := addCmd.String("envVar", "", "Credential environment variable (e.g., OPENAI_API_KEY)")
	tags := addCmd.String("tags", "", "Comma separated tags")

	// Add-op command flags
	idOp := opCmd.String("id", "", "Vendor ID")
	opName := opCmd.String("name", "", "Operation name (e.g., analyze)")
	opDescription := opCmd.String("description", "", "Description")
	opResponse := opCmd.String("response", "{}", "Canned JSON response object")

	// Update command flags
	idUpdate := updateCmd.String("id", "", "Vendor ID to update")
	field := updateCmd.String("field", "", "Field to update (displayName, type, envVar, tags)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		initCmd.Parse(os.Args[2:])
		if _, err := os.Stat(registryPath); err == nil && !*force {
			fmt.Printf("Error: %s already exists, use -force to overwrite.\n", registryPath)
			os.Exit(1)
		}
		if err := registry.Default().Save(registryPath); err != nil {
			fmt.Printf("Error writing registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default registry to %s\n", registryPath)

	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *vendorType == "" || *envVar == "" {
			fmt.Println("Error: id, displayName, type, and envVar are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		vendor := registry.Vendor{
			ID:          *idAdd,
			DisplayName: *displayName,
			Type:        *vendorType,
			EnvVar:      *envVar,
			Operations:  []registry.Operation{},
			Tags:        splitTags(*tags),
		}
		if err := addVendor(vendor); err != nil {
			fmt.Printf("Error adding vendor: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added vendor: %s\n", *idAdd)

	case "add-op":
		opCmd.Parse(os.Args[2:])
		if *idOp == "" || *opName == "" {
			fmt.Println("Error: id and name are required for add-op.")
			opCmd.Usage()
			os.Exit(1)
		}
		var response map[string]interface{}
		if err := json.Unmarshal([]byte(*opResponse), &response); err != nil {
			fmt.Printf("Error: response must be a JSON object: %v\n", err)
			os.Exit(1)
		}
		op := registry.Operation{Name: *opName, Description: *opDescription, Response: response}
		if err := addOperation(*idOp, op); err != nil {
			fmt.Printf("Error adding operation: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added operation %s to vendor %s\n", *opName, *idOp)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateVendor(*idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating vendor: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated vendor %s, field %s to %s\n", *idUpdate, *field, *value)

	case "list":
		listCmd.Parse(os.Args[2:])
		reg, err := registry.LoadOrDefault(registryPath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		for _, v := range reg.Vendors {
			ops := make([]string, len(v.Operations))
			for i, op := range v.Operations {
				ops[i] = op.Name
			}
			fmt.Printf("%-12s %-10s %-20s %s\n", v.ID, v.Type, v.EnvVar, strings.Join(ops, ","))
		}

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(registryPath)
		if err == nil {
			err = reg.Validate()
		}
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d vendors.\n", len(reg.Vendors))

	case "help":
		fallthrough
	default:
		help()
	}
}

func load() (*registry.VendorRegistry, error) {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &registry.VendorRegistry{Version: "1.0.0", Vendors: []registry.Vendor{}}, nil
		}
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}

func addVendor(vendor registry.Vendor) error {
	reg, err := load()
	if err != nil {
		return err
	}
	if _, exists := reg.Vendor(vendor.ID); exists {
		return fmt.Errorf("vendor with ID %s already exists", vendor.ID)
	}
	reg.Vendors = append(reg.Vendors, vendor)
	return reg.Save(registryPath)
}

func addOperation(id string, op registry.Operation) error {
	reg, err := load()
	if err != nil {
		return err
	}
	v, ok := reg.Vendor(id)
	if !ok {
		return fmt.Errorf("vendor with ID %s not found", id)
	}
	for _, existing := range v.Operations {
		if existing.Name == op.Name {
			return fmt.Errorf("vendor %s already has operation %s", id, op.Name)
		}
	}
	v.Operations = append(v.Operations, op)
	return reg.Save(registryPath)
}

func updateVendor(id, field, value string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	v, ok := reg.Vendor(id)
	if !ok {
		return fmt.Errorf("vendor with ID %s not found", id)
	}

	switch field {
	case "displayName":
		v.DisplayName = value
	case "type":
		v.Type = value
	case "envVar":
		v.EnvVar = value
	case "tags":
		v.Tags = splitTags(value)
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return reg.Save(registryPath)
}

func splitTags(s string) []string {
	out := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  init     Write the built-in vendor registry to disk
  add      Add a new vendor to the registry
  add-op   Add a canned operation response to a vendor
  update   Update an existing vendor's field
  list     List vendors and their operations
  validate Validate the registry file
  help     Show this help message

Examples:
  registry-updater init -path configs/vendor-registry.json
  registry-updater add -id cohere -displayName "Cohere" -type llm -envVar COHERE_API_KEY -tags llm,embeddings
  registry-updater add-op -id cohere -name analyze -response '{"analysis":"ok"}'
  registry-updater update -id cohere -field envVar -value CO_API_KEY
  registry-updater validate -path configs/vendor-registry.json

Use 'registry-updater <command> -h' for more information about a command.
` + "\n")
}
