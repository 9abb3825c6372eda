// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package constants

// ToolVersion is the version of the dap2 command line tools.
const ToolVersion = "0.9.0"

// GitSHA is set at build time with -ldflags "-X ...constants.GitSHA=...".
var GitSHA = "<developer build>"
