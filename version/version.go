package version

// Name for this
const Name string = "icongen"

// Version for this
var Version = "dev"

// Revision for this
var Revision = "HEAD"
