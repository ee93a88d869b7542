/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/checkstore/datastore"
	"github.com/suparena/checkstore/errors"
	"github.com/suparena/checkstore/registry"
	"github.com/suparena/checkstore/storagemodels"
)

var _ datastore.DataStore = (*DynamodbDataStore)(nil)

func TestExpandMacros(t *testing.T) {
	indexMap := map[string]string{
		"PK":  "CHECK#{id}",
		"SK":  "OWNER#{owner}#{interval}",
		"PK1": "ENTITY#check",
		"SK1": "{missing}",
	}
	got := expandMacros(indexMap, storagemodels.Record{"id": "c1", "owner": "u1", "interval": 60})

	want := map[string]string{
		"PK":  "CHECK#c1",
		"SK":  "OWNER#u1#60",
		"PK1": "ENTITY#check",
		"SK1": "",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, got[k])
		}
	}
}

func TestBuildUpdateExpression(t *testing.T) {
	expr, names, values, err := buildUpdateExpression(storagemodels.Fields{
		"url":      "https://a.example",
		"interval": 30,
		"active":   false,
	})
	if err != nil {
		t.Fatalf("buildUpdateExpression: %v", err)
	}
	if expr != "SET #f0 = :v0, #f1 = :v1, #f2 = :v2" {
		t.Fatalf("unexpected expression %q", expr)
	}
	if names["#f0"] != "active" || names["#f1"] != "interval" || names["#f2"] != "url" {
		t.Fatalf("unexpected names %v", names)
	}
	if n, ok := values[":v1"].(*types.AttributeValueMemberN); !ok || n.Value != "30" {
		t.Fatalf("expected numeric :v1, got %#v", values[":v1"])
	}
	if b, ok := values[":v0"].(*types.AttributeValueMemberBOOL); !ok || b.Value {
		t.Fatalf("expected false :v0, got %#v", values[":v0"])
	}

	if _, _, _, err := buildUpdateExpression(nil); !errors.IsValidationError(err) {
		t.Fatalf("expected validation error for empty updates, got %v", err)
	}
}

func TestDynamodbDataStoreCRUD(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient(0)
	store := NewWithClient(client, "checkstore-test")
	checks := registry.MustResolve(registry.TagCheck)

	rec := storagemodels.Record{"id": "c1", "url": "https://a.example", "interval": 60}
	if err := store.Insert(ctx, checks, rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := store.Insert(ctx, checks, rec); !errors.IsAlreadyExists(err) {
		t.Fatalf("expected already exists, got %v", err)
	}

	raw := client.items["CHECK#c1|CHECK#c1"]
	if stringAttr(raw[EntityTypeAttribute]) != "check" || stringAttr(raw["PK1"]) != "ENTITY#check" || stringAttr(raw["SK1"]) != "c1" {
		t.Fatalf("unexpected stored item: %v", raw)
	}

	got, err := store.FindOne(ctx, checks, "c1")
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	for _, attr := range []string{"PK", "SK", "PK1", "SK1", EntityTypeAttribute} {
		if _, ok := got[attr]; ok {
			t.Errorf("key attribute %s leaked into record", attr)
		}
	}
	if got["url"] != "https://a.example" || got["interval"] != float64(60) {
		t.Fatalf("unexpected record: %v", got)
	}

	updated, err := store.Update(ctx, checks, "c1", storagemodels.Fields{"interval": 30, "name": "A"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated["interval"] != float64(30) || updated["name"] != "A" || updated["url"] != "https://a.example" {
		t.Fatalf("unexpected update result: %v", updated)
	}
	if _, err := store.Update(ctx, checks, "missing", storagemodels.Fields{"name": "x"}); !errors.IsNotFound(err) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if _, err := store.Update(ctx, checks, "c1", storagemodels.Fields{"PK": "x"}); !errors.IsValidationError(err) {
		t.Fatalf("expected validation error for key attribute, got %v", err)
	}

	removed, err := store.Delete(ctx, checks, "c1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed["name"] != "A" {
		t.Fatalf("expected removed record, got %v", removed)
	}
	if _, err := store.FindOne(ctx, checks, "c1"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := store.Delete(ctx, checks, "c1"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestDynamodbDataStoreFindPaginates(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient(2)
	store := NewWithClient(client, "checkstore-test")
	checks := registry.MustResolve(registry.TagCheck)
	users := registry.MustResolve(registry.TagUser)

	for _, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
		owner := "u1"
		if id == "c3" {
			owner = "u2"
		}
		if err := store.Insert(ctx, checks, storagemodels.Record{"id": id, "owner": owner}); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Insert(ctx, users, storagemodels.Record{"id": "u1", "email": "a@example.com"}); err != nil {
		t.Fatal(err)
	}

	all, err := store.Find(ctx, checks, nil)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 checks across pages, got %d", len(all))
	}
	if client.queries != 3 {
		t.Fatalf("expected 3 pages, got %d", client.queries)
	}

	q, err := storagemodels.ParseCriteria(storagemodels.Criteria{"owner": "u1", "sort": "id DESC", "limit": 2})
	if err != nil {
		t.Fatal(err)
	}
	mine, err := store.Find(ctx, checks, q)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(mine) != 2 || mine[0].ID() != "c5" || mine[1].ID() != "c4" {
		t.Fatalf("unexpected result: %v", mine)
	}

	onlyUsers, err := store.Find(ctx, users, nil)
	if err != nil {
		t.Fatalf("Find users: %v", err)
	}
	if len(onlyUsers) != 1 || onlyUsers[0].ID() != "u1" {
		t.Fatalf("models should not mix, got %v", onlyUsers)
	}
}

func TestInsertRejectsKeyAttributes(t *testing.T) {
	store := NewWithClient(newFakeClient(0), "checkstore-test")
	checks := registry.MustResolve(registry.TagCheck)

	err := store.Insert(context.Background(), checks, storagemodels.Record{"id": "c1", "EntityType": "user"})
	if !errors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFindUsesConfiguredGSI(t *testing.T) {
	ctx := context.Background()
	original, _ := registry.GetIndexMap(registry.TagCheck)
	t.Cleanup(func() { registry.RegisterIndexMap(registry.TagCheck, original) })
	registry.RegisterIndexMap(registry.TagCheck, map[string]string{
		"PK":     "CHECK#{id}",
		"SK":     "CHECK#{id}",
		"ListPK": "MODEL#check",
	})

	client := newFakeClient(0)
	store := NewWithClient(client, "checkstore-test", WithGSI(GSIConfig{IndexName: "ByModel", PartitionKeyName: "ListPK"}))
	checks := registry.MustResolve(registry.TagCheck)

	if err := store.Insert(ctx, checks, storagemodels.Record{"id": "c1", "url": "https://a"}); err != nil {
		t.Fatal(err)
	}
	found, err := store.Find(ctx, checks, nil)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 1 || client.lastIndex != "ByModel" {
		t.Fatalf("Find = %v via %q", found, client.lastIndex)
	}
}

func TestWritesRejectItemsOfAnotherModel(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient(0)
	store := NewWithClient(client, "checkstore-test")
	checks := registry.MustResolve(registry.TagCheck)

	client.items["CHECK#c9|CHECK#c9"] = map[string]types.AttributeValue{
		"PK":                &types.AttributeValueMemberS{Value: "CHECK#c9"},
		"SK":                &types.AttributeValueMemberS{Value: "CHECK#c9"},
		EntityTypeAttribute: &types.AttributeValueMemberS{Value: "user"},
		"id":                &types.AttributeValueMemberS{Value: "c9"},
	}

	_, err := store.Update(ctx, checks, "c9", storagemodels.Fields{"name": "x"})
	if !errors.IsConditionFailed(err) {
		t.Fatalf("expected condition failed on update, got %v", err)
	}
	if _, err := store.Delete(ctx, checks, "c9"); !errors.IsConditionFailed(err) {
		t.Fatalf("expected condition failed on delete, got %v", err)
	}

	raw, ok := client.items["CHECK#c9|CHECK#c9"]
	if !ok {
		t.Fatal("foreign item was deleted")
	}
	if _, ok := raw["name"]; ok {
		t.Fatalf("foreign item was updated: %v", raw)
	}
}
