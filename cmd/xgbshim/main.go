// Command xgbshim builds the C-linkage function table over the shim package.
// Build it with -buildmode=c-shared to obtain a shared library and header:
//
//	go build -buildmode=c-shared -o libxgbshim.so ./cmd/xgbshim
//
// Hosts receive opaque uintptr_t handles, pass flat row-major float buffers,
// and check int status codes (0 on success, negative on failure).
// XGBShimLastError retrieves the message of the most recent failure.
package main

func main() {}
