package handler

type ContextKey string

var RestaurantCtx ContextKey = "restaurant"
