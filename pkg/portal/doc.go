// Package portal holds everything the uploader knows about the creator
// portal's routing and markup: which URLs mean "logged in", which CSS
// selectors locate the upload form, and which button labels drive publishing.
//
// The URL classification is a substring heuristic coupled to the portal's
// routing scheme. If the portal changes its URLs, Classifier will report
// wrong answers rather than fail, so keep the patterns here and nowhere else.
package portal
