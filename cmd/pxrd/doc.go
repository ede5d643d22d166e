// Command pxrd manages a catalog of powder X-ray diffraction spectra.
//
// It imports two-column text ("xyd") and binary instrument ("raw") files,
// stores each as a named record with element and tag metadata, and offers
// listing, editing, deletion, and a read-only consistency check of the
// catalog directory. Every command accepts --json for machine-readable
// output.
package main
