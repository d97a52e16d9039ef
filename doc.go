// Package optimus contains the core components of Optimus, a framework for manipulating tabular data
// through one API while the computation is delegated to one of several interchangeable engines.
// This root package defines the data model and the contracts every engine implements (the Adapter and
// Functions interfaces, and the Capability Registry of Actions), and is an excellent overview of the
// framework's key concepts. Engines live under engines/, the user-facing proxy under dataframe/, and
// the lifecycle of an engine connection under session/.
package optimus
