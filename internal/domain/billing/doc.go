// Package billing models the subscription plans that limit what a merchant
// can create on the marketplace.
//
// A user is on exactly one plan at a time. Plans differ by the number of
// stores a user may open and the number of products each store may list.
// Paid plans are identified by the payments-provider price they are sold at;
// a user whose subscription lapsed falls back to the free basic plan.
package billing
