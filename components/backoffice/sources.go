package backoffice

import (
	"context"

	"github.com/haulware/backoffice/components/collection"
)

// Source adapters bind each resource's API to the generic view-model. Only
// resources the backend allows deleting get a working Delete.

type leadSource struct {
	api LeadAPI
}

func (s leadSource) List(ctx context.Context, params collection.Params) ([]Lead, error) {
	return s.api.ListLeads(ctx, params)
}

func (s leadSource) Update(ctx context.Context, id string, intent collection.Intent) (*Lead, error) {
	return s.api.PatchLead(ctx, id, intent)
}

func (s leadSource) Delete(ctx context.Context, id string) error {
	return s.api.DeleteLead(ctx, id)
}

type partnerSource struct {
	api PartnerAPI
}

func (s partnerSource) List(ctx context.Context, params collection.Params) ([]Partner, error) {
	return s.api.ListPartners(ctx, params)
}

func (s partnerSource) Update(ctx context.Context, id string, intent collection.Intent) (*Partner, error) {
	return s.api.PatchPartner(ctx, id, intent)
}

func (s partnerSource) Delete(context.Context, string) error {
	return errPartnerDeleteUnsupported
}

type referralSource struct {
	api ReferralAPI
}

func (s referralSource) List(ctx context.Context, params collection.Params) ([]Referral, error) {
	return s.api.ListReferrals(ctx, params)
}

func (s referralSource) Update(ctx context.Context, id string, intent collection.Intent) (*Referral, error) {
	return s.api.PatchReferral(ctx, id, intent)
}

func (s referralSource) Delete(ctx context.Context, id string) error {
	return s.api.DeleteReferral(ctx, id)
}

type commissionSource struct {
	api CommissionAPI
}

func (s commissionSource) List(ctx context.Context, params collection.Params) ([]Commission, error) {
	return s.api.ListCommissions(ctx, params)
}

func (s commissionSource) Update(ctx context.Context, id string, intent collection.Intent) (*Commission, error) {
	return s.api.PatchCommission(ctx, id, intent)
}

func (s commissionSource) Delete(context.Context, string) error {
	return errCommissionDeleteUnsupported
}

type activitySource struct {
	api ActivityAPI
}

func (s activitySource) List(ctx context.Context, params collection.Params) ([]Activity, error) {
	return s.api.ListActivities(ctx, params)
}

func (s activitySource) Update(ctx context.Context, id string, intent collection.Intent) (*Activity, error) {
	return s.api.PatchActivity(ctx, id, intent)
}

func (s activitySource) Delete(ctx context.Context, id string) error {
	return s.api.DeleteActivity(ctx, id)
}
