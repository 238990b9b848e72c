// Package hcl loads module manifests from HCL files and stitches their
// component declarations to the compiled-in implementation values held in
// the catalog.
//
// A manifest is one or more .hcl files containing `module` blocks. Each
// block declares the module's identity and metadata plus `component`
// blocks that bind an extension slot to an implementation by name. The
// loader resolves those names against the catalog and emits the ordered
// descriptor list the registry consumes; an unresolvable name is a fatal
// manifest error, with a closest-match suggestion when one is plausible.
//
// Module order is file order: files are discovered in walk order under
// each configured path, and blocks keep their in-file order. Assemblies
// that care about precedence encode it in file naming.
package hcl
