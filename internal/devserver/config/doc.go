// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
//
// Supported flags
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-m int      maximum upload size, MB
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//	-l string   log format: text, json or zap
//
// The JSON file is selected with -c or -config; flags win over it.
package config
