// Package ai defines the provider-neutral chat types shared by every
// adapter: conversation messages, chat requests, and the normalized token
// stream that all three wire protocols are converted into.
package ai
