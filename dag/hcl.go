package dag

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclDeclarationFile is the HCL form of a DeclarationFile:
//
//	name     = "users"
//	includes = ["common"]
//
//	node "contact" {
//	  depends = ["identity"]
//	  outputs = ["email", "phone"]
//
//	  validator "tag" {
//	    field = "email"
//	    args  = { tag = "email" }
//	  }
//	}
type hclDeclarationFile struct {
	Name     string     `hcl:"name"`
	Includes []string   `hcl:"includes,optional"`
	Nodes    []*hclNode `hcl:"node,block"`
}

type hclNode struct {
	Name       string          `hcl:"name,label"`
	Inputs     []string        `hcl:"inputs,optional"`
	Outputs    []string        `hcl:"outputs,optional"`
	Depends    []string        `hcl:"depends,optional"`
	Validators []*hclValidator `hcl:"validator,block"`
}

type hclValidator struct {
	Use   string    `hcl:"use,label"`
	Field string    `hcl:"field,optional"`
	Args  cty.Value `hcl:"args,optional"`
}

// ParseHCLDeclarationFile decodes an HCL declaration document. filename is
// used in diagnostics only.
func ParseHCLDeclarationFile(data []byte, filename string) (*DeclarationFile, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("dag: parsing declarations: %w", diags)
	}

	var raw hclDeclarationFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("dag: decoding declarations: %w", diags)
	}

	f := &DeclarationFile{Name: raw.Name, Includes: raw.Includes}
	for _, n := range raw.Nodes {
		nd := NodeDecl{
			Name:    n.Name,
			Inputs:  n.Inputs,
			Outputs: n.Outputs,
			Depends: n.Depends,
		}
		for _, v := range n.Validators {
			args, err := ctyArgs(v.Args)
			if err != nil {
				return nil, fmt.Errorf("dag: node %q validator %q: %w", n.Name, v.Use, err)
			}
			nd.Validators = append(nd.Validators, ValidatorDef{Use: v.Use, Field: v.Field, Args: args})
		}
		f.Nodes = append(f.Nodes, nd)
	}
	return f, nil
}

// ctyArgs converts an args object into the map shape YAML produces.
func ctyArgs(v cty.Value) (map[string]any, error) {
	native, err := ctyToNative(v)
	if err != nil || native == nil {
		return nil, err
	}
	m, ok := native.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("args must be an object, got %s", v.Type().FriendlyName())
	}
	return m, nil
}

// ctyToNative converts a cty.Value to plain Go values. Numbers become
// float64 unless they are whole, in which case they become int.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			var i int
			if err := gocty.FromCtyValue(v, &i); err == nil {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, el := it.Element()
			nv, err := ctyToNative(el)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, el := it.Element()
			nv, err := ctyToNative(el)
			if err != nil {
				return nil, fmt.Errorf("in %q: %w", k.AsString(), err)
			}
			out[k.AsString()] = nv
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}
