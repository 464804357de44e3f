package irmamobile

// Version of the irmawallet command line and libraries
const Version = "0.3.0"
