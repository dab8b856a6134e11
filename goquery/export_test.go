package goquery

var FindBaseURL = findBaseURL
